// Package agentscope provides a client for the AgentScope agent discovery
// API. Every endpoint is a public read; no credentials are needed.
package agentscope

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Agent is a registered on-chain agent as served by the API.
type Agent struct {
	ID               string            `json:"id"`
	ChainID          int64             `json:"chain_id"`
	AgentID          string            `json:"agent_id"`
	Owner            string            `json:"owner"`
	MetadataURI      string            `json:"metadata_uri"`
	CreatedAt        int64             `json:"created_at"`
	UpdatedAt        int64             `json:"updated_at"`
	TotalFeedback    int64             `json:"total_feedback"`
	RegistrationFile *RegistrationFile `json:"registration_file"`
}

// RegistrationFile is the agent's off-chain metadata.
type RegistrationFile struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Image           *string  `json:"image"`
	MCPEndpoint     *string  `json:"mcpEndpoint"`
	A2AEndpoint     *string  `json:"a2aEndpoint"`
	SupportedTrusts []string `json:"supportedTrusts"`
}

// Feedback is one review against an agent.
type Feedback struct {
	ID            string `json:"id"`
	Score         int    `json:"score"`
	Tag1          string `json:"tag1"`
	Tag2          string `json:"tag2"`
	ClientAddress string `json:"client_address"`
	CreatedAt     int64  `json:"created_at"`
}

// AgentList is the paged listing response.
type AgentList struct {
	Agents   []Agent `json:"agents"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// AgentDetail is the detail response.
type AgentDetail struct {
	Agent    *Agent     `json:"agent"`
	Feedback []Feedback `json:"feedback"`
}

// Stats is the global statistics response.
type Stats struct {
	TotalAgents   string `json:"total_agents"`
	TotalFeedback string `json:"total_feedback"`
}

// Health is the health check response.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// ListOptions filters and pages the agent listing. Zero values are omitted.
type ListOptions struct {
	Page        int
	PageSize    int
	Search      string
	HasReviews  bool
	HasEndpoint bool
}

// Client is an AgentScope API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new AgentScope client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs a GET and decodes the JSON response into out.
func (c *Client) doRequest(path string, out interface{}) error {
	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(body, &errResp)
		return fmt.Errorf("agentscope error %d: %s", resp.StatusCode, errResp.Error)
	}

	return json.Unmarshal(body, out)
}

// ListAgents fetches a page of agents.
func (c *Client) ListAgents(opts ListOptions) (*AgentList, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.HasReviews {
		q.Set("hasReviews", "true")
	}
	if opts.HasEndpoint {
		q.Set("hasEndpoint", "true")
	}

	path := "/agents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out AgentList
	if err := c.doRequest(path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountAgents returns the number of agents matching the filter options.
// The API reports the count as the total of a listing, so this fetches a
// minimal one-agent page and discards everything but the total.
func (c *Client) CountAgents(opts ListOptions) (int, error) {
	opts.Page = 1
	opts.PageSize = 1
	list, err := c.ListAgents(opts)
	if err != nil {
		return 0, err
	}
	return list.Total, nil
}

// GetAgent fetches one agent by its "<chainId>:<tokenId>" id.
func (c *Client) GetAgent(id string) (*AgentDetail, error) {
	var out AgentDetail
	if err := c.doRequest("/agents/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStats fetches global registry statistics.
func (c *Client) GetStats() (*Stats, error) {
	var out Stats
	if err := c.doRequest("/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHealth fetches the service health report.
func (c *Client) GetHealth() (*Health, error) {
	var out Health
	if err := c.doRequest("/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
