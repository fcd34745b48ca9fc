// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "path_search_duration_seconds",
			Help:    "Wall-clock duration of shortest-path searches",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"algorithm"},
	)

	SearchNodesVisited = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "path_search_nodes_visited",
			Help:    "Nodes finalized per shortest-path search",
			Buckets: prometheus.ExponentialBuckets(8, 2, 16),
		},
		[]string{"algorithm"},
	)

	SearchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "path_search_outcomes_total",
			Help: "Shortest-path searches by outcome (found, unreachable, error)",
		},
		[]string{"algorithm", "outcome"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests to external services by upstream and status class",
		},
		[]string{"upstream", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	GraphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walk_graph_nodes",
			Help:    "Node count of walk graphs loaded for routing",
			Buckets: prometheus.ExponentialBuckets(64, 2, 14),
		},
	)
)
