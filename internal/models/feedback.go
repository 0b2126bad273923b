package models

// Feedback is one review/attestation submitted against an agent. Revoked
// feedback is excluded at the query boundary and never reaches this struct.
type Feedback struct {
	ID            string        `json:"id"`
	Score         int           `json:"score"`
	Tag1          string        `json:"tag1"`
	Tag2          string        `json:"tag2"`
	ClientAddress string        `json:"client_address"`
	CreatedAt     int64         `json:"created_at"`
	FeedbackFile  *FeedbackFile `json:"feedback_file"`
}

// FeedbackFile is the optional off-chain payload attached to a feedback
// entry.
type FeedbackFile struct {
	Text       *string `json:"text"`
	Capability *string `json:"capability"`
	Skill      *string `json:"skill"`
}
