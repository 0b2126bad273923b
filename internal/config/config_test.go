package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DefaultSubgraphURL, cfg.SubgraphURL)
	assert.Equal(t, DefaultIPFSGateway, cfg.IPFSGateway)
	assert.Equal(t, 30*time.Second, cfg.SubgraphTimeout)
	assert.Equal(t, 10*time.Second, cfg.ResolverTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SUBGRAPH_URL", "https://example.com/subgraphs/agents")
	t.Setenv("SUBGRAPH_TIMEOUT", "5s")
	t.Setenv("RESOLVER_TIMEOUT", "3")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 192.168.0.0/16 ,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://example.com/subgraphs/agents", cfg.SubgraphURL)
	assert.Equal(t, 5*time.Second, cfg.SubgraphTimeout)
	assert.Equal(t, 3*time.Second, cfg.ResolverTimeout, "bare integers read as seconds")
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("SUBGRAPH_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.SubgraphTimeout)
}
