// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation service:
// - API endpoint latency and throughput
// - Recommendation engine lookups
// - TMDB metadata fetches and fallback usage
// - Metadata cache efficiency
// - Circuit breaker state for outbound calls

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Engine Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation lookups",
		},
		[]string{"result"}, // "success", "unknown_title", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TMDB Metadata Metrics
	TMDBFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_fetches_total",
			Help: "Total number of TMDB metadata fetches",
		},
		[]string{"operation", "result"}, // operation: "details", "poster"; result: "success", "fallback"
	)

	TMDBFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_fetch_duration_seconds",
			Help:    "TMDB fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	// Trailer Lookup Metrics
	TrailerLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailer_lookups_total",
			Help: "Total number of trailer URL lookups",
		},
		[]string{"result"}, // "found", "not_found", "error"
	)

	// Metadata Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "metadata_cache_entries",
			Help: "Current number of cached metadata entries",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 = closed, 1 = half-open, 2 = open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures per circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Catalog Metrics
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)
)

// RecordAPIRequest records metrics for a completed API request
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation lookup outcome
func RecordRecommendation(result string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(result).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordTMDBFetch records a TMDB fetch with its outcome
// result is "success" when live data was returned, "fallback" otherwise
func RecordTMDBFetch(operation, result string, duration time.Duration) {
	TMDBFetchesTotal.WithLabelValues(operation, result).Inc()
	TMDBFetchDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheHit records a hit on the named metadata cache
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a miss on the named metadata cache
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
