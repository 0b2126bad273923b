package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aeither/agentscope/internal/models"
	"github.com/aeither/agentscope/internal/store"
	"github.com/aeither/agentscope/internal/subgraph"
)

// Directory is the read surface the handlers serve. *registry.Service
// implements it; tests substitute fakes.
type Directory interface {
	ListAgents(ctx context.Context, pageSize, skip int, filter subgraph.Filter) ([]models.Agent, error)
	GetAgentWithFeedback(ctx context.Context, id string) (*models.Agent, []models.Feedback, error)
	CountAgents(ctx context.Context, filter subgraph.Filter) (int, error)
	GlobalStats(ctx context.Context) (models.GlobalStats, error)
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	dir   Directory
	redis *store.RedisStore
}

// NewHandler creates a new Handler. redis may be nil when rate limiting is
// not configured.
func NewHandler(dir Directory, redis *store.RedisStore) *Handler {
	return &Handler{dir: dir, redis: redis}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// upstreamStatus maps a data-layer error to an HTTP status. Transport and
// GraphQL failures are the upstream's fault, everything else is ours.
func upstreamStatus(err error) int {
	var te *subgraph.TransportError
	var ge *subgraph.GraphQLError
	if errors.As(err, &te) || errors.As(err, &ge) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// sanitizeText trims and limits free text to 200 characters, removing
// control characters. Feedback tags come straight off the chain and can
// carry binary noise.
func sanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	// Limit to 200 runes; a byte cut could split a multi-byte rune and
	// emit invalid UTF-8
	if utf8.RuneCountInString(text) > 200 {
		text = string([]rune(text)[:200])
	}

	return text
}
