package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aeither/agentscope/internal/api/middleware"
	"github.com/aeither/agentscope/internal/config"
	"github.com/aeither/agentscope/internal/handlers"
	"github.com/aeither/agentscope/internal/store"
)

// NewRouter creates and configures the HTTP router. redisStore may be nil;
// rate limiting then runs in pass-through mode.
func NewRouter(logger zerolog.Logger, cfg *config.Config, dir handlers.Directory, redisStore *store.RedisStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(4 * 1024)) // reads only; 4KB is generous
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	var redisClient *redis.Client
	if redisStore != nil {
		redisClient = redisStore.Client()
	}
	limiter := middleware.NewRateLimiter(redisClient, logger, middleware.RateLimiterConfig{
		Whitelist: cfg.RateLimitWhitelist,
	})
	r.Use(limiter.Middleware)

	// CORS - allow all origins (the discovery API serves public chain data)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(dir, redisStore)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// All routes are public reads
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/agents", h.ListAgents)
	r.Get("/agents/{id}", h.GetAgent)
	r.Get("/stats", h.Stats)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		h.Error(w, http.StatusNotFound, "not found")
	})

	return r
}
