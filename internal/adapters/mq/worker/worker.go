// Package worker drains the submission queue into the event store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/arcadetally/tally/internal/domain/model"
	"github.com/arcadetally/tally/pkg/logger"
	"github.com/arcadetally/tally/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Appender is the write side of the event store as workers see it.
type Appender interface {
	AppendScore(ctx context.Context, e model.ScoreEvent) error
	AppendUnlock(ctx context.Context, e model.UnlockEvent) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Submission
}

// Worker consumes submissions and appends them to the store. Malformed
// submissions are counted and skipped; one bad record never stops the loop.
type Worker struct {
	queue    Queue
	appender Appender
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(queue Queue, appender Appender, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		appender: appender,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "submission failed", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight submission.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, s model.Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(time.Since(start).Seconds())
	}()

	if err := s.Validate(); err != nil {
		// Skip, do not fail: a malformed record must not blank the stream.
		metrics.RecordSubmissionMalformed(string(s.Kind))
		w.logger.Warn(ctx, "skipping malformed submission",
			logger.String("kind", string(s.Kind)),
			logger.Error(err),
		)
		return nil
	}

	var err error
	switch s.Kind {
	case model.SubmissionUnlock:
		err = w.appender.AppendUnlock(ctx, s.Unlock)
	default:
		err = w.appender.AppendScore(ctx, s.Score)
	}
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("append %s event %s: %w", s.Kind, s.EventID(), err)
	}
	return nil
}

// Pool manages a fixed set of workers.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates workerCount workers over the same queue and appender.
func NewPool(workerCount int, queue Queue, appender Appender) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = New(queue, appender, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts the pool down, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop", logger.Error(err))
		}
		cancel()
	}
	metrics.UpdateWorkerCount(0)
}
