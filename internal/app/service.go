// Package app provides the core service that implements the dependencies
// required by the HTTP API: ingestion on the write side, analytics report
// computation on the read side.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arcadetally/tally/internal/adapters/mq/queue"
	"github.com/arcadetally/tally/internal/adapters/mq/worker"
	"github.com/arcadetally/tally/internal/adapters/repository"
	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/dedupe"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/internal/domain/types"
	"github.com/arcadetally/tally/pkg/logger"
	"github.com/arcadetally/tally/pkg/metrics"
)

// Service wires the event store, ingestion pipeline and analytics engine.
type Service struct {
	mu sync.RWMutex

	// Core components.
	store    repository.Store
	supplier repository.Supplier
	catalog  repository.CatalogSupplier
	memCat   *repository.MemCatalog
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	engine   *analytics.Engine
	pg       *repository.PGStore

	// Configuration.
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	snapshotTTL time.Duration
	loc         *time.Location
	databaseURL string

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds the submission queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDedupeSize bounds the idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithShardCount configures the in-memory event store.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithLocation fixes the bucketing zone for day and heatmap boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSnapshotTTL sets how long report reads reuse a fetched snapshot.
// Zero or negative disables the cache.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.snapshotTTL = ttl
	}
}

// WithDatabaseURL selects the Postgres-backed store when non-empty.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 4,
		queueSize:   100_000,
		dedupeSize:  500_000,
		shardCount:  8,
		snapshotTTL: 2 * time.Second,
		loc:         time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analytics service",
		logger.String("timezone", s.loc.String()),
		logger.Int("workers", s.workerCount),
	)

	if s.databaseURL != "" {
		pg, err := repository.NewPGStore(ctx, s.databaseURL)
		if err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
		s.pg = pg
		s.store = pg
		s.catalog = pg
		s.logger.Info(ctx, "using postgres event store")
	} else {
		s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
		s.memCat = repository.NewMemCatalog()
		s.catalog = s.memCat
		s.logger.Info(ctx, "using in-memory event store",
			logger.Int("shards", s.shardCount),
		)
	}

	s.supplier = repository.NewCachedSupplier(s.store, s.snapshotTTL)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)
	s.engine = analytics.NewEngine(s.loc)

	s.started = true
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service")

	_ = s.queue.Close()
	s.pool.Stop()
	if c, ok := s.supplier.(*repository.CachedSupplier); ok {
		c.Stop()
	}
	if s.pg != nil {
		s.pg.Close()
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// SeenAndRecord atomically checks and records an event id. Returns true when
// the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if !seen {
		metrics.UpdateDedupeSize(s.deduper.Size())
	}
	return seen
}

// Unrecord removes an event id, allowing the submission to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of event ids tracked by the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an event for asynchronous ingestion. Returns false on
// backpressure.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	ok := s.queue.Enqueue(ctx, sub)
	if ok {
		metrics.RecordSubmissionAccepted(string(sub.Kind))
	} else {
		metrics.RecordSubmissionDropped(string(sub.Kind))
	}
	return ok
}

// PutAchievement upserts a catalog row. Only available with the in-memory
// catalog; the Postgres catalog is owned by the surrounding application.
func (s *Service) PutAchievement(_ context.Context, a model.Achievement) error {
	if s.memCat == nil {
		return fmt.Errorf("achievement catalog is read-only")
	}
	s.memCat.Put(a)
	return nil
}

// Report recomputes every analytics table for one query from a fresh (or
// TTL-cached) snapshot.
func (s *Service) Report(ctx context.Context, q analytics.Query) (types.Report, error) {
	start := time.Now()

	snap, err := s.supplier.Snapshot(ctx, q.Scope)
	if err != nil {
		return types.Report{}, fmt.Errorf("load snapshot: %w", err)
	}
	achievements, err := s.catalog.Achievements(ctx)
	if err != nil {
		return types.Report{}, fmt.Errorf("load achievement catalog: %w", err)
	}

	report := s.engine.Report(snap, analytics.MapCatalog(achievements), q)

	metrics.RecordReportComputed()
	metrics.RecordReportDuration(time.Since(start).Seconds())
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"timezone":    s.loc.String(),
	}
	if s.started {
		ctx := context.Background()
		scores, unlocks := s.store.Counts(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["scoreEvents"] = scores
		stats["unlockEvents"] = unlocks
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}
