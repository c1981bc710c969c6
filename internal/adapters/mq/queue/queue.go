// Package queue defines the contract for enqueuing and consuming submissions.
//
// The in-memory implementation is a bounded channel: enqueue is non-blocking
// and reports backpressure instead of waiting, so the HTTP layer can tell a
// client to retry rather than stalling.
package queue

import (
	"context"
	"sync"

	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/metrics"
)

const defaultCapacity = 100_000

// Submission is the payload type flowing through the queue.
type Submission = model.Submission

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a submission. Returns false when the queue is full or
	// closed and the submission was not accepted.
	Enqueue(ctx context.Context, s Submission) bool

	// Dequeue returns a channel receiving submissions as they arrive. The
	// channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Submission

	// Len returns the current number of queued submissions.
	Len(ctx context.Context) int

	// Close stops the queue; no new submissions are accepted afterwards.
	Close() error
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	submissions chan Submission
	capacity    int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.submissions = make(chan Submission, q.capacity)
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a submission without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Submission) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueError("closed")
		return false
	}

	select {
	case q.submissions <- s:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	case <-ctx.Done():
		metrics.RecordQueueError("context_cancelled")
		return false
	default:
		metrics.RecordQueueError("queue_full")
		return false
	}
}

// Dequeue returns a channel receiving submissions until the queue closes or
// ctx is done.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Submission {
	out := make(chan Submission)
	go func() {
		defer close(out)
		for s := range q.submissions {
			select {
			case out <- s:
				metrics.RecordQueueDequeue()
				q.observe()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued submissions.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.submissions)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.submissions)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	n := len(q.submissions)
	metrics.UpdateQueueSize(n)
	metrics.UpdateQueueUtilization(float64(n) / float64(q.capacity))
}
