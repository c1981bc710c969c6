// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event ids to ensure at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing it to be retried. Used when an event
	// was marked seen but could not be processed (queue backpressure).
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

// inMemoryDeduper tracks ids in a map with a fixed-size ring of insertion
// order. When the ring is full the oldest id is evicted, so memory stays
// bounded regardless of event volume. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> ring slot, -1 when unbounded
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	slot := -1
	if d.maxSize > 0 {
		if old := d.ring[d.next]; old != "" {
			delete(d.seen, old)
		}
		d.ring[d.next] = id
		slot = d.next
		d.next = (d.next + 1) % d.maxSize
	}
	d.seen[id] = slot
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	// Clear the ring slot too. A re-recorded id gets a fresh slot; leaving
	// the stale one behind would evict the fresh entry when the ring wraps.
	if slot >= 0 && d.ring[slot] == id {
		d.ring[slot] = ""
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
