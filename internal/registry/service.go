// Package registry exposes the four aggregate read operations over the
// agent index: paged listing, single-agent detail with feedback, filtered
// counting, and global stats. It composes the subgraph transport with the
// metadata resolver; all entities are fetched fresh per call and nothing is
// persisted locally.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/aeither/agentscope/internal/models"
	"github.com/aeither/agentscope/internal/subgraph"
)

const (
	// feedbackPageSize caps how many feedback entries the detail view loads.
	feedbackPageSize = 50

	// countBatch is the id-only page size used by CountAgents. The subgraph
	// caps "first" at 1000.
	countBatch = 1000

	// maxCountPages bounds CountAgents; counts are exact up to
	// countBatch*maxCountPages agents.
	maxCountPages = 100

	// enrichConcurrency bounds the metadata-resolution fan-out per page.
	enrichConcurrency = 8
)

// Service implements the aggregate read operations.
type Service struct {
	sub      *subgraph.Client
	resolver *Resolver
}

// NewService creates a Service on top of the given transport and resolver.
func NewService(sub *subgraph.Client, resolver *Resolver) *Service {
	return &Service{sub: sub, resolver: resolver}
}

const agentFields = `
    id
    chainId
    agentId
    owner
    metadataURI
    createdAt
    updatedAt
    totalFeedback
    registrationFile {
      name
      description
      image
      mcpEndpoint
      a2aEndpoint
      supportedTrusts
    }`

// rawAgent mirrors the subgraph's agent shape. BigInt fields arrive as
// strings; json.Number accepts both encodings.
type rawAgent struct {
	ID               string               `json:"id"`
	ChainID          json.Number          `json:"chainId"`
	AgentID          string               `json:"agentId"`
	Owner            string               `json:"owner"`
	MetadataURI      string               `json:"metadataURI"`
	CreatedAt        json.Number          `json:"createdAt"`
	UpdatedAt        json.Number          `json:"updatedAt"`
	TotalFeedback    json.Number          `json:"totalFeedback"`
	RegistrationFile *rawRegistrationFile `json:"registrationFile"`
	Feedbacks        []rawFeedback        `json:"feedbacks"`
}

type rawRegistrationFile struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	MCPEndpoint     string   `json:"mcpEndpoint"`
	A2AEndpoint     string   `json:"a2aEndpoint"`
	SupportedTrusts []string `json:"supportedTrusts"`
}

type rawFeedback struct {
	ID            string      `json:"id"`
	Score         string      `json:"score"`
	Tag1          string      `json:"tag1"`
	Tag2          string      `json:"tag2"`
	ClientAddress string      `json:"clientAddress"`
	CreatedAt     json.Number `json:"createdAt"`
	IsRevoked     bool        `json:"isRevoked"`
	FeedbackFile  *struct {
		Text       string `json:"text"`
		Capability string `json:"capability"`
		Skill      string `json:"skill"`
	} `json:"feedbackFile"`
}

// ListAgents returns up to pageSize agents ordered by registration time,
// newest first, offset by skip. Agents whose registration file the indexer
// has not decoded are enriched by resolving their metadata URI; resolution
// runs concurrently per agent and a failure for one agent never affects the
// others.
func (s *Service) ListAgents(ctx context.Context, pageSize, skip int, filter subgraph.Filter) ([]models.Agent, error) {
	query := fmt.Sprintf(`{
  agents(first: %d, skip: %d, orderBy: createdAt, orderDirection: desc%s) {%s
  }
}`, pageSize, skip, filter.BuildWhere(), agentFields)

	data, err := s.sub.Query(ctx, "list_agents", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Agents []rawAgent `json:"agents"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode agents: %w", err)
	}

	agents := make([]models.Agent, len(payload.Agents))
	for i, ra := range payload.Agents {
		agents[i] = ra.toModel()
	}

	s.enrich(ctx, agents)
	return agents, nil
}

// enrich resolves metadata for agents lacking a decoded registration file.
// Each agent's resolution is independent; goroutines write only their own
// slice index, so page order is preserved regardless of completion order.
func (s *Service) enrich(ctx context.Context, agents []models.Agent) {
	g := new(errgroup.Group)
	g.SetLimit(enrichConcurrency)
	for i := range agents {
		if agents[i].RegistrationFile != nil || agents[i].MetadataURI == "" {
			continue
		}
		i := i
		g.Go(func() error {
			agents[i].RegistrationFile = s.resolver.Resolve(ctx, agents[i].MetadataURI)
			return nil
		})
	}
	// Resolution never returns an error; Wait is just the join point.
	_ = g.Wait()
}

// GetAgentWithFeedback fetches one agent by its composite "<chainId>:<tokenId>"
// id together with its most recent non-revoked feedback. A nonexistent id is
// not an error: it returns (nil, empty, nil).
func (s *Service) GetAgentWithFeedback(ctx context.Context, id string) (*models.Agent, []models.Feedback, error) {
	query := fmt.Sprintf(`{
  agent(id: %s) {%s
    feedbacks(first: %d, orderBy: createdAt, orderDirection: desc, where: {isRevoked: false}) {
      id
      score
      tag1
      tag2
      clientAddress
      createdAt
      isRevoked
      feedbackFile {
        text
        capability
        skill
      }
    }
  }
}`, subgraph.EscapeString(id), agentFields, feedbackPageSize)

	data, err := s.sub.Query(ctx, "agent_detail", query)
	if err != nil {
		return nil, nil, err
	}

	var payload struct {
		Agent *rawAgent `json:"agent"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode agent: %w", err)
	}

	if payload.Agent == nil {
		return nil, []models.Feedback{}, nil
	}

	agent := payload.Agent.toModel()
	if agent.RegistrationFile == nil && agent.MetadataURI != "" {
		agent.RegistrationFile = s.resolver.Resolve(ctx, agent.MetadataURI)
	}

	feedback := make([]models.Feedback, 0, len(payload.Agent.Feedbacks))
	for _, rf := range payload.Agent.Feedbacks {
		if rf.IsRevoked {
			continue
		}
		feedback = append(feedback, rf.toModel())
	}

	return &agent, feedback, nil
}

// CountAgents returns the number of agents matching the filter. The
// subgraph has no count primitive, so ids are paged in batches until a
// short batch; counts are exact up to countBatch*maxCountPages agents and
// clamp there beyond it.
func (s *Service) CountAgents(ctx context.Context, filter subgraph.Filter) (int, error) {
	where := filter.BuildWhere()
	total := 0

	for page := 0; page < maxCountPages; page++ {
		query := fmt.Sprintf(`{
  agents(first: %d, skip: %d%s) {
    id
  }
}`, countBatch, page*countBatch, where)

		data, err := s.sub.Query(ctx, "count_agents", query)
		if err != nil {
			return 0, err
		}

		var payload struct {
			Agents []struct {
				ID string `json:"id"`
			} `json:"agents"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return 0, fmt.Errorf("decode agent ids: %w", err)
		}

		total += len(payload.Agents)
		if len(payload.Agents) < countBatch {
			break
		}
	}

	return total, nil
}

// GlobalStats fetches the indexer's singleton aggregate row. Counters stay
// string-encoded, verbatim from the index; nothing is cached between calls.
func (s *Service) GlobalStats(ctx context.Context) (models.GlobalStats, error) {
	query := `{
  globalStats(id: "global") {
    totalAgents
    totalFeedback
  }
}`

	data, err := s.sub.Query(ctx, "global_stats", query)
	if err != nil {
		return models.GlobalStats{}, err
	}

	var payload struct {
		GlobalStats *struct {
			TotalAgents   string `json:"totalAgents"`
			TotalFeedback string `json:"totalFeedback"`
		} `json:"globalStats"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.GlobalStats{}, fmt.Errorf("decode stats: %w", err)
	}

	if payload.GlobalStats == nil {
		return models.GlobalStats{TotalAgents: "0", TotalFeedback: "0"}, nil
	}
	return models.GlobalStats{
		TotalAgents:   payload.GlobalStats.TotalAgents,
		TotalFeedback: payload.GlobalStats.TotalFeedback,
	}, nil
}

func (ra rawAgent) toModel() models.Agent {
	chainID, _ := ra.ChainID.Int64()
	createdAt, _ := ra.CreatedAt.Int64()
	updatedAt, _ := ra.UpdatedAt.Int64()
	totalFeedback, _ := ra.TotalFeedback.Int64()

	return models.Agent{
		ID:               ra.ID,
		ChainID:          chainID,
		AgentID:          ra.AgentID,
		Owner:            ra.Owner,
		MetadataURI:      ra.MetadataURI,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		TotalFeedback:    totalFeedback,
		RegistrationFile: ra.RegistrationFile.toModel(),
	}
}

func (rr *rawRegistrationFile) toModel() *models.RegistrationFile {
	if rr == nil {
		return nil
	}
	return &models.RegistrationFile{
		Name:            optional(rr.Name),
		Description:     optional(rr.Description),
		Image:           optional(rr.Image),
		MCPEndpoint:     optional(rr.MCPEndpoint),
		A2AEndpoint:     optional(rr.A2AEndpoint),
		SupportedTrusts: rr.SupportedTrusts,
	}
}

func (rf rawFeedback) toModel() models.Feedback {
	// Scores travel as text; a malformed score reads as 0.
	score, _ := strconv.Atoi(rf.Score)
	createdAt, _ := rf.CreatedAt.Int64()

	fb := models.Feedback{
		ID:            rf.ID,
		Score:         score,
		Tag1:          rf.Tag1,
		Tag2:          rf.Tag2,
		ClientAddress: rf.ClientAddress,
		CreatedAt:     createdAt,
	}
	if rf.FeedbackFile != nil {
		fb.FeedbackFile = &models.FeedbackFile{
			Text:       optional(rf.FeedbackFile.Text),
			Capability: optional(rf.FeedbackFile.Capability),
			Skill:      optional(rf.FeedbackFile.Skill),
		}
	}
	return fb
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
