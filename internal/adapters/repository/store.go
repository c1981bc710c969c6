// Package repository defines the event store contracts and implementations.
//
// The store is the source of truth the engine recomputes from. Snapshots
// returned to callers are copies: mutating one never affects the store, and
// the engine can treat every snapshot as immutable.
package repository

import (
	"context"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
)

// Supplier is the read side consumed by the analytics service. Scope may be
// used to pre-filter server-side as an optimization; the engine tolerates
// receiving the full unfiltered set either way.
type Supplier interface {
	Snapshot(ctx context.Context, scope analytics.Scope) (model.Snapshot, error)
}

// Store provides append and read access to the recorded event stream.
type Store interface {
	Supplier

	// AppendScore records a score event. Events are immutable once recorded.
	AppendScore(ctx context.Context, e model.ScoreEvent) error

	// AppendUnlock records an achievement-unlock event.
	AppendUnlock(ctx context.Context, e model.UnlockEvent) error

	// Counts returns the number of stored score and unlock events.
	Counts(ctx context.Context) (scores, unlocks int)
}

// CatalogSupplier loads the achievement catalog used for points lookups.
type CatalogSupplier interface {
	Achievements(ctx context.Context) (map[string]model.Achievement, error)
}
