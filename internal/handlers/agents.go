package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aeither/agentscope/internal/models"
	"github.com/aeither/agentscope/internal/subgraph"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
	maxSearchLen    = 100
)

// agentIDRegex validates composite "<chainId>:<tokenId>" agent ids.
var agentIDRegex = regexp.MustCompile(`^[0-9]+:[0-9]+$`)

// AgentListResponse is the paged agent list.
type AgentListResponse struct {
	Agents   []models.Agent `json:"agents"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// AgentDetailResponse is a single agent plus its recent feedback.
type AgentDetailResponse struct {
	Agent    *models.Agent     `json:"agent"`
	Feedback []models.Feedback `json:"feedback"`
}

// ListAgents handles the paged, filtered agent listing.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := defaultPageSize
	if sizeStr := q.Get("pageSize"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	search := q.Get("search")
	if len(search) > maxSearchLen {
		h.Error(w, http.StatusBadRequest, "search term too long (max 100 chars)")
		return
	}

	filter := subgraph.Filter{
		Search:      search,
		HasReviews:  q.Get("hasReviews") == "true",
		HasEndpoint: q.Get("hasEndpoint") == "true",
	}

	ctx := r.Context()

	agents, err := h.dir.ListAgents(ctx, pageSize, (page-1)*pageSize, filter)
	if err != nil {
		h.Error(w, upstreamStatus(err), "agent listing failed: "+err.Error())
		return
	}

	total, err := h.dir.CountAgents(ctx, filter)
	if err != nil {
		h.Error(w, upstreamStatus(err), "agent count failed: "+err.Error())
		return
	}

	h.JSON(w, http.StatusOK, AgentListResponse{
		Agents:   agents,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetAgent handles the agent detail view.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !agentIDRegex.MatchString(id) {
		h.Error(w, http.StatusBadRequest, "invalid agent ID format, expected <chainId>:<tokenId>")
		return
	}

	agent, feedback, err := h.dir.GetAgentWithFeedback(r.Context(), id)
	if err != nil {
		h.Error(w, upstreamStatus(err), "agent lookup failed: "+err.Error())
		return
	}

	if agent == nil {
		h.Error(w, http.StatusNotFound, "agent not found")
		return
	}

	// Tags and review text are chain-sourced free text; scrub before serving.
	for i := range feedback {
		feedback[i].Tag1 = sanitizeText(feedback[i].Tag1)
		feedback[i].Tag2 = sanitizeText(feedback[i].Tag2)
	}

	h.JSON(w, http.StatusOK, AgentDetailResponse{
		Agent:    agent,
		Feedback: feedback,
	})
}
