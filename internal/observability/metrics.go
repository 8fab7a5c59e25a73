package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed cache lookup results.
const (
	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultError = "error"
)

var (
	// FeedCacheLookups counts global feed cache lookups by result.
	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_lookups_total",
		Help: "Feed cache lookups by result (hit, miss, error)",
	}, []string{"backend", "result"})

	// FeedCacheErrors counts feed cache backend failures by operation.
	FeedCacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_errors_total",
		Help: "Feed cache backend errors by operation",
	}, []string{"backend", "operation"})

	// FeedCacheInvalidations counts invalidations by scope (key or all).
	FeedCacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_invalidations_total",
		Help: "Feed cache invalidations by scope",
	}, []string{"backend", "scope"})

	// FeedCacheStalePuts counts recomputed feeds discarded because a write invalidated them meanwhile.
	FeedCacheStalePuts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_stale_puts_total",
		Help: "Feed cache puts dropped because the entry was invalidated during recomputation",
	}, []string{"backend"})

	// FeedSelectLatency records feed selection latency by feed kind.
	FeedSelectLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_feed_select_latency_seconds",
		Help:    "Feed selection and pagination latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackFeedSelect returns a function that records feed selection latency when called.
func TrackFeedSelect(kind string) func() {
	start := time.Now()
	return func() {
		FeedSelectLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
