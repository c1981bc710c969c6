package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/arcadetally/tally/internal/domain/analytics"
	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/metrics"
)

const defaultShardCount = 8

// MemStore is a sharded in-memory event store. Events are partitioned by an
// FNV-1a hash of the player name so concurrent appends for different players
// rarely contend on the same lock. Snapshot copies events out shard by shard.
type MemStore struct {
	shards []*memShard
}

type memShard struct {
	mu      sync.RWMutex
	scores  []model.ScoreEvent
	unlocks []model.UnlockEvent
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	cfg := options{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &MemStore{shards: make([]*memShard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &memShard{}
	}
	metrics.UpdateStoreShardCount(cfg.shardCount)
	return s
}

func (s *MemStore) shard(playerName string) *memShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerName))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// AppendScore records a score event.
func (s *MemStore) AppendScore(_ context.Context, e model.ScoreEvent) error {
	if err := e.Validate(); err != nil {
		metrics.RecordStoreAppendError()
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	sh := s.shard(e.PlayerName)
	sh.mu.Lock()
	sh.scores = append(sh.scores, e)
	sh.mu.Unlock()
	return nil
}

// AppendUnlock records an achievement-unlock event.
func (s *MemStore) AppendUnlock(_ context.Context, e model.UnlockEvent) error {
	if err := e.Validate(); err != nil {
		metrics.RecordStoreAppendError()
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	sh := s.shard(e.PlayerName)
	sh.mu.Lock()
	sh.unlocks = append(sh.unlocks, e)
	sh.mu.Unlock()
	return nil
}

// Snapshot copies out every event matching scope. The returned slices are
// owned by the caller.
func (s *MemStore) Snapshot(_ context.Context, scope analytics.Scope) (model.Snapshot, error) {
	var snap model.Snapshot
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.scores {
			if scope == analytics.ScopeAll || string(scope) == e.TournamentID {
				snap.Scores = append(snap.Scores, e)
			}
		}
		for _, e := range sh.unlocks {
			if scope == analytics.ScopeAll || string(scope) == e.TournamentID {
				snap.Unlocks = append(snap.Unlocks, e)
			}
		}
		sh.mu.RUnlock()
	}
	return snap, nil
}

// Counts returns the number of stored score and unlock events.
func (s *MemStore) Counts(_ context.Context) (scores, unlocks int) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		scores += len(sh.scores)
		unlocks += len(sh.unlocks)
		sh.mu.RUnlock()
	}
	metrics.UpdateStoreEvents("score", scores)
	metrics.UpdateStoreEvents("unlock", unlocks)
	return scores, unlocks
}

// MemCatalog is an in-memory achievement catalog.
type MemCatalog struct {
	mu           sync.RWMutex
	achievements map[string]model.Achievement
}

// NewMemCatalog creates a catalog seeded with the given achievements.
func NewMemCatalog(achievements ...model.Achievement) *MemCatalog {
	c := &MemCatalog{achievements: make(map[string]model.Achievement, len(achievements))}
	for _, a := range achievements {
		c.achievements[a.ID] = a
	}
	return c
}

// Put adds or replaces an achievement.
func (c *MemCatalog) Put(a model.Achievement) {
	c.mu.Lock()
	c.achievements[a.ID] = a
	c.mu.Unlock()
}

// Achievements returns a copy of the catalog.
func (c *MemCatalog) Achievements(_ context.Context) (map[string]model.Achievement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]model.Achievement, len(c.achievements))
	for id, a := range c.achievements {
		out[id] = a
	}
	return out, nil
}
