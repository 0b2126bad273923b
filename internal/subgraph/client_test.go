package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestQuery_Success(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": {"agents": []}}`))
	})

	data, err := c.Query(context.Background(), "test", `{ agents { id } }`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"agents": []}`, string(data))
	assert.Equal(t, `{ agents { id } }`, gotBody["query"])
}

func TestQuery_TransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Query(context.Background(), "test", `{ agents { id } }`)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Contains(t, te.Error(), "500")
}

func TestQuery_GraphQLError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "field does not exist"}, {"message": "second"}]}`))
	})

	_, err := c.Query(context.Background(), "test", `{ agents { nope } }`)
	require.Error(t, err)

	var ge *GraphQLError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "field does not exist", ge.Message, "first error message wins")

	// The two fatal channels stay distinct.
	var te *TransportError
	assert.False(t, errors.As(err, &te))
}

func TestQuery_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.Query(context.Background(), "test", `{ agents { id } }`)
	assert.Error(t, err)
}

func TestQuery_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Query(ctx, "test", `{ agents { id } }`)
	assert.Error(t, err)
}
