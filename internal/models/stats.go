package models

// GlobalStats is the singleton aggregate row maintained by the indexer.
// Counters are string-encoded upstream and passed through verbatim; callers
// parse them when they need numbers.
type GlobalStats struct {
	TotalAgents   string `json:"total_agents"`
	TotalFeedback string `json:"total_feedback"`
}
