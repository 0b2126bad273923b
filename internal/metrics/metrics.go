package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentscope_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentscope_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Subgraph metrics
	SubgraphQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentscope_subgraph_queries_total",
			Help: "Subgraph queries by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SubgraphLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agentscope_subgraph_latency_seconds",
			Help:    "Subgraph query latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Metadata resolution metrics
	MetadataResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentscope_metadata_resolutions_total",
			Help: "Metadata URI resolutions by scheme and outcome",
		},
		[]string{"scheme", "outcome"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentscope_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
