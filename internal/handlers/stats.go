package handlers

import (
	"net/http"
)

// StatsResponse is the global index statistics. Counters are passed
// through string-encoded exactly as the index reports them.
type StatsResponse struct {
	TotalAgents   string `json:"total_agents"`
	TotalFeedback string `json:"total_feedback"`
}

// Stats returns global registry statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dir.GlobalStats(r.Context())
	if err != nil {
		h.Error(w, upstreamStatus(err), "stats fetch failed: "+err.Error())
		return
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalAgents:   stats.TotalAgents,
		TotalFeedback: stats.TotalFeedback,
	})
}
