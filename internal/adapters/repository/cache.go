package repository

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/metrics"
)

// CachedSupplier is a read-through TTL cache over a Supplier, keyed by scope.
// It implements the caller-owned recomputation policy: within one TTL every
// report for a scope is computed from the same snapshot, and the next read
// after expiry refetches from the store. The engine below it stays cache-free.
type CachedSupplier struct {
	inner Supplier
	cache *ttlcache.Cache[analytics.Scope, model.Snapshot]
}

// NewCachedSupplier wraps inner with a TTL cache. A non-positive ttl returns
// the inner supplier unchanged, so callers can disable caching by config.
func NewCachedSupplier(inner Supplier, ttl time.Duration) Supplier {
	if ttl <= 0 {
		return inner
	}
	c := ttlcache.New[analytics.Scope, model.Snapshot](
		ttlcache.WithTTL[analytics.Scope, model.Snapshot](ttl),
		ttlcache.WithDisableTouchOnHit[analytics.Scope, model.Snapshot](),
	)
	go c.Start()
	return &CachedSupplier{inner: inner, cache: c}
}

// Snapshot serves from the cache when fresh, otherwise fetches from the
// backing supplier and stores the result for the TTL.
func (s *CachedSupplier) Snapshot(ctx context.Context, scope analytics.Scope) (model.Snapshot, error) {
	if item := s.cache.Get(scope); item != nil {
		metrics.RecordSnapshotCacheHit()
		return item.Value(), nil
	}
	metrics.RecordSnapshotCacheMiss()

	start := time.Now()
	snap, err := s.inner.Snapshot(ctx, scope)
	if err != nil {
		return model.Snapshot{}, err
	}
	metrics.RecordSnapshotLoad(time.Since(start).Seconds())

	s.cache.Set(scope, snap, ttlcache.DefaultTTL)
	return snap, nil
}

// Stop shuts down the cache's expiry loop.
func (s *CachedSupplier) Stop() {
	s.cache.Stop()
}
