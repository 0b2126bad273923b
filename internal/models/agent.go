package models

// Agent represents a registered on-chain agent identity as materialized by
// the subgraph. IDs are composite "<chainId>:<tokenId>" strings issued
// upstream; this service never mints identifiers of its own.
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

// RegistrationFile is the off-chain JSON metadata describing an agent.
// Fields are pointers so that anything absent or empty in the source JSON
// serializes as an explicit null rather than being omitted: consumers can
// rely on the shape being fixed regardless of what the metadata contained.
type RegistrationFile struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Image           *string  `json:"image"`
	MCPEndpoint     *string  `json:"mcpEndpoint"`
	A2AEndpoint     *string  `json:"a2aEndpoint"`
	SupportedTrusts []string `json:"supportedTrusts"`
}
