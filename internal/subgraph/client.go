// Package subgraph talks to the external GraphQL index that materializes
// on-chain agent registrations and feedback. It is a read-only, one-shot
// transport: one POST per query, no batching, no retries.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aeither/agentscope/internal/metrics"
)

// TransportError is a non-2xx HTTP response from the subgraph endpoint.
type TransportError struct {
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("subgraph request failed with status %d", e.Status)
}

// GraphQLError is an application-level error: HTTP succeeded but the
// response body carried an errors array. Message is the first reported
// message.
type GraphQLError struct {
	Message string
}

func (e *GraphQLError) Error() string {
	return "subgraph query error: " + e.Message
}

// Client executes GraphQL queries against a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a subgraph client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query POSTs the given query text and returns the raw data object.
// Variables, if any, must already be interpolated into the query text.
// Typing the result is the caller's responsibility.
func (c *Client) Query(ctx context.Context, op, query string) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SubgraphQueries.WithLabelValues(op, "network_error").Inc()
		return nil, fmt.Errorf("subgraph request: %w", err)
	}
	defer resp.Body.Close()
	metrics.SubgraphLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SubgraphQueries.WithLabelValues(op, "http_error").Inc()
		return nil, &TransportError{Status: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SubgraphQueries.WithLabelValues(op, "network_error").Inc()
		return nil, fmt.Errorf("subgraph response: %w", err)
	}

	var gr graphqlResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		metrics.SubgraphQueries.WithLabelValues(op, "decode_error").Inc()
		return nil, fmt.Errorf("subgraph response: %w", err)
	}

	if len(gr.Errors) > 0 {
		metrics.SubgraphQueries.WithLabelValues(op, "graphql_error").Inc()
		return nil, &GraphQLError{Message: gr.Errors[0].Message}
	}

	metrics.SubgraphQueries.WithLabelValues(op, "ok").Inc()
	return gr.Data, nil
}
