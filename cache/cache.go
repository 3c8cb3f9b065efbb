package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/theoremus-urban-solutions/parkings-aggregator/internal/metrics"
)

// Producer computes a fresh value for a key on miss or expiry.
type Producer[V any] func(ctx context.Context, key string) (V, error)

type entry[V any] struct {
	value      V
	computedAt time.Time
}

// Cache is a TTL keyed store with single-flight recomputation and
// stale-on-error fallback. It is the only mutable shared state in the
// aggregation core; all entry access goes through mu.
type Cache[V any] struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[V]
	group   singleflight.Group

	log *zap.Logger
}

// New creates a cache whose entries expire ttl after computation.
func New[V any](ttl time.Duration, log *zap.Logger) *Cache[V] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache[V]{
		ttl:     ttl,
		clock:   time.Now,
		entries: map[string]entry[V]{},
		log:     log.Named("cache"),
	}
}

// Get returns the cached value for key, recomputing through producer when
// the entry is missing or expired. Concurrent callers for the same
// expired key share one producer invocation. When the producer fails and
// an expired entry exists, that stale value is returned with a nil error
// and its timestamp is left untouched, so the next call retries the
// producer; with no prior entry the producer's error is propagated.
func (c *Cache[V]) Get(ctx context.Context, key string, producer Producer[V]) (V, error) {
	if v, ok := c.fresh(key); ok {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		// Another waiter may have refreshed the entry while this caller
		// queued on the flight group.
		if v, ok := c.fresh(key); ok {
			metrics.CacheHits.WithLabelValues(key).Inc()
			return v, nil
		}
		metrics.CacheMisses.WithLabelValues(key).Inc()

		// The cache entry, not the individual caller, is the unit of
		// work: an abandoned request must still populate the cache for
		// the callers behind it.
		v, err := producer(context.WithoutCancel(ctx), key)
		if err == nil {
			c.store(key, v)
			return v, nil
		}

		if stale, ok := c.peek(key); ok {
			metrics.CacheStaleServes.WithLabelValues(key).Inc()
			c.log.Warn("refresh failed, serving stale entry",
				zap.String("key", key), zap.Error(err))
			return stale, nil
		}
		return nil, err
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Invalidate drops the entry for key, if any.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fresh returns the value for key if it exists and is within TTL.
func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.clock().Sub(e.computedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// peek returns the value for key regardless of expiry.
func (c *Cache[V]) peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) store(key string, v V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: v, computedAt: c.clock()}
	c.mu.Unlock()
}
