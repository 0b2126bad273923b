package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default endpoints. The subgraph URL is the single fixed upstream the
// whole service reads from; it is resolved once at startup and never
// mutated afterwards.
const (
	DefaultSubgraphURL = "https://api.studio.thegraph.com/query/118938/chaoschain-genesis-studio/version/latest"
	DefaultIPFSGateway = "https://ipfs.io/ipfs/"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	SubgraphURL     string
	IPFSGateway     string
	SubgraphTimeout time.Duration
	ResolverTimeout time.Duration

	RedisURL string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		SubgraphURL:     getEnv("SUBGRAPH_URL", DefaultSubgraphURL),
		IPFSGateway:     getEnv("IPFS_GATEWAY", DefaultIPFSGateway),
		SubgraphTimeout: getDuration("SUBGRAPH_TIMEOUT", 30*time.Second),
		ResolverTimeout: getDuration("RESOLVER_TIMEOUT", 10*time.Second),
		RedisURL:        os.Getenv("REDIS_URL"),
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	if cfg.Env == "production" && cfg.SubgraphURL == "" {
		panic("SUBGRAPH_URL is required in production")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
