// Package async serializes import sessions. The catalog admits one session
// at a time; RPC handlers submit their session and block for the outcome, so
// concurrent ImportBatch calls run back to back instead of interleaving
// their duplicate checks.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/importer"
)

// SessionRunner runs one import session. *importer.BatchImporter satisfies it.
type SessionRunner interface {
	Run(ctx context.Context, records []entity.ImportRecord) (*importer.Result, error)
}

// ErrShuttingDown is returned for sessions submitted after Shutdown began.
var ErrShuttingDown = errors.New("session queue is shutting down")

type outcome struct {
	result *importer.Result
	err    error
}

type sessionJob struct {
	ctx     context.Context
	source  string
	runner  SessionRunner
	records []entity.ImportRecord
	reply   chan outcome
}

// SessionQueue owns the single worker that drains queued sessions in
// arrival order.
type SessionQueue struct {
	logger  *slog.Logger
	timeout time.Duration

	ch   chan sessionJob
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*SessionQueue)

func WithQueueSize(n int) Option {
	return func(q *SessionQueue) {
		if n > 0 {
			q.ch = make(chan sessionJob, n)
		}
	}
}

func WithSessionTimeout(d time.Duration) Option {
	return func(q *SessionQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewSessionQueue(logger *slog.Logger, opts ...Option) *SessionQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &SessionQueue{
		logger:  logger,
		timeout: 10 * time.Minute,
		ch:      make(chan sessionJob, 16),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *SessionQueue) start() {
	q.once.Do(func() {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for job := range q.ch {
				// The submitter may have given up while queued.
				if err := job.ctx.Err(); err != nil {
					q.logger.Warn("session abandoned before start", "source", job.source, "error", err)
					job.reply <- outcome{err: err}
					continue
				}

				ctx, cancel := context.WithTimeout(job.ctx, q.timeout)
				result, err := job.runner.Run(ctx, job.records)
				cancel()

				if err != nil {
					q.logger.Error("session failed", "source", job.source, "error", err)
				}
				job.reply <- outcome{result: result, err: err}
			}
		}()
	})
}

// RunSession queues the session and blocks until it has run.
func (q *SessionQueue) RunSession(ctx context.Context, source string, runner SessionRunner, records []entity.ImportRecord) (*importer.Result, error) {
	job := sessionJob{
		ctx:     ctx,
		source:  source,
		runner:  runner,
		records: records,
		// buffered so the worker never blocks on a departed submitter
		reply: make(chan outcome, 1),
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrShuttingDown
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("session queue full, applying backpressure", "source", source)
		q.ch <- job
	}
	q.mu.Unlock()

	select {
	case out := <-job.reply:
		return out.result, out.err
	case <-ctx.Done():
		// the worker sees the dead context and skips the session
		return nil, ctx.Err()
	}
}

// Shutdown stops intake and waits for queued sessions to finish.
func (q *SessionQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("session queue drained, shutdown complete")
	}
}
