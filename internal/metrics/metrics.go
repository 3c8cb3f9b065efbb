// Package metrics registers the process-wide prometheus collectors. Every
// recoverable upstream failure is counted here so a flaky feed is visible
// even when the cache is papering over it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchFailures counts upstream fetch/parse failures by city and kind.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkings",
		Name:      "source_failures_total",
		Help:      "Upstream source failures by city and failure kind.",
	}, []string{"city", "kind"})

	// FetchDuration observes upstream request latency by city.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parkings",
		Name:      "source_fetch_duration_seconds",
		Help:      "Wall time of one adapter refresh, including parsing.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"city"})

	// CacheHits counts cache reads served from a fresh entry.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkings",
		Name:      "cache_hits_total",
		Help:      "Cache reads answered within the TTL window.",
	}, []string{"key"})

	// CacheMisses counts reads that invoked the producer.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkings",
		Name:      "cache_misses_total",
		Help:      "Cache reads that required a producer invocation.",
	}, []string{"key"})

	// CacheStaleServes counts expired entries served because a refresh failed.
	CacheStaleServes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkings",
		Name:      "cache_stale_serves_total",
		Help:      "Expired cache entries returned after a failed refresh.",
	}, []string{"key"})
)
