package agentscope

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountAgents(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agents", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"agents": [{"id": "1:1"}], "total": 1234, "page": 1, "page_size": 1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	n, err := c.CountAgents(ListOptions{Search: "bot", HasReviews: true})
	require.NoError(t, err)
	assert.Equal(t, 1234, n)
	assert.Contains(t, gotQuery, "pageSize=1", "count fetches a minimal page")
	assert.Contains(t, gotQuery, "search=bot")
	assert.Contains(t, gotQuery, "hasReviews=true")
}

func TestGetAgent_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "agent not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetAgent("84532:999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "agent not found")
}
