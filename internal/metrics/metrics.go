// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed generation
	FeedGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_generation_duration_seconds",
			Help:    "Duration of feed generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed", "sort"}, // feed: "mixed", "personalized"
	)

	FeedItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_items_returned",
			Help:    "Number of items returned per feed page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"feed"},
	)

	FeedGenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_generation_failures_total",
			Help: "Feed generations that recovered from an unexpected failure and returned empty",
		},
		[]string{"feed"},
	)

	// Fetchers
	FetcherDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetcher_duration_seconds",
			Help:    "Duration of a single content fetcher run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	FetcherErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetcher_errors_total",
			Help: "Fetcher runs that failed and degraded to an empty list",
		},
		[]string{"kind"},
	)

	FetcherItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetcher_items_total",
			Help: "Items produced by fetchers",
		},
		[]string{"kind"},
	)

	DocumentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_documents_rejected_total",
			Help: "Store documents skipped because they failed validation",
		},
		[]string{"collection"},
	)

	// Candidate pool cache
	PoolCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pool_cache_hits_total",
			Help: "Candidate pool cache hits",
		},
		[]string{"backend"},
	)

	PoolCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pool_cache_misses_total",
			Help: "Candidate pool cache misses",
		},
		[]string{"backend"},
	)

	PoolCacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feed_pool_cache_entries",
			Help: "Current number of cached candidate pools",
		},
		[]string{"backend"},
	)

	// Document store
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Document store operations that returned an error other than not-found",
		},
		[]string{"operation", "collection"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Background services
	BadgerGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badger_gc_runs_total",
			Help: "BadgerDB value-log GC runs",
		},
		[]string{"result"}, // "ok", "error"
	)
)

// RecordFeedGeneration records one completed feed request.
func RecordFeedGeneration(feed, sortBy string, duration time.Duration, items int) {
	FeedGenerationDuration.WithLabelValues(feed, sortBy).Observe(duration.Seconds())
	FeedItemsReturned.WithLabelValues(feed).Observe(float64(items))
}

// RecordFeedFailure records a generation that recovered into an empty result.
func RecordFeedFailure(feed string) {
	FeedGenerationFailures.WithLabelValues(feed).Inc()
}

// RecordFetch records one fetcher run.
func RecordFetch(kind string, duration time.Duration, items int, err error) {
	FetcherDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		FetcherErrors.WithLabelValues(kind).Inc()
		return
	}
	FetcherItems.WithLabelValues(kind).Add(float64(items))
}

// RecordRejectedDocument counts a document dropped at the fetch boundary.
func RecordRejectedDocument(collection string) {
	DocumentsRejected.WithLabelValues(collection).Inc()
}

// RecordPoolCache records a pool cache lookup.
func RecordPoolCache(backend string, hit bool) {
	if hit {
		PoolCacheHits.WithLabelValues(backend).Inc()
		return
	}
	PoolCacheMisses.WithLabelValues(backend).Inc()
}

// RecordStoreQuery records a store operation. notFound errors should be
// passed as nil by the caller.
func RecordStoreQuery(operation, collection string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordCircuitBreakerRequest records the outcome of one guarded call.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a state change and updates the gauge.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active requests gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBadgerGC records a value-log GC pass.
func RecordBadgerGC(err error) {
	if err != nil {
		BadgerGCRuns.WithLabelValues("error").Inc()
		return
	}
	BadgerGCRuns.WithLabelValues("ok").Inc()
}
