package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	audit "titling/pkg/platform/audit"
)

// DefaultMaxAttempts bounds redelivery of one batch.
const DefaultMaxAttempts = 10

// Deliverer sends one batch to the primary history store.
type Deliverer interface {
	Deliver(ctx context.Context, batch audit.Batch) error
}

// Worker periodically drains the retry queue through a Deliverer. Failed
// batches go back on the queue until they exhaust their attempts.
type Worker struct {
	queue       audit.Queue
	deliverer   Deliverer
	interval    time.Duration
	batchSize   int
	maxAttempts int
	logger      *zap.Logger
}

type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.maxAttempts = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(queue audit.Queue, deliverer Deliverer, opts ...Option) *Worker {
	w := &Worker{
		queue:       queue,
		deliverer:   deliverer,
		interval:    time.Minute,
		batchSize:   50,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the queue every interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				w.logger.Warn("history retry drain failed", zap.Error(err))
			}
		}
	}
}

// Result summarizes one drain pass.
type Result struct {
	Delivered int
	Requeued  int
	Dropped   int
	Lost      int
}

// Drain processes at most one batch-size worth of queued batches. A failed
// requeue does not stop the pass; the batch is logged as lost and the requeue
// errors are returned together once every dequeued batch has been handled.
func (w *Worker) Drain(ctx context.Context) (Result, error) {
	var res Result
	var requeueErrs []error
	batches, err := w.queue.Dequeue(ctx, w.batchSize)
	if err != nil {
		return res, err
	}
	for _, b := range batches {
		err := w.deliverer.Deliver(ctx, b)
		if err == nil {
			res.Delivered++
			continue
		}
		if b.Attempts+1 >= w.maxAttempts {
			res.Dropped++
			w.logger.Error("dropping history batch after repeated failures",
				zap.String("customer_id", b.CustomerID),
				zap.Int("events", len(b.Events)),
				zap.Error(err),
			)
			continue
		}
		b.Attempts++
		if qerr := w.queue.Enqueue(ctx, b); qerr != nil {
			res.Lost++
			requeueErrs = append(requeueErrs, qerr)
			w.logger.Error("lost history batch on requeue",
				zap.String("customer_id", b.CustomerID),
				zap.Int("events", len(b.Events)),
				zap.NamedError("delivery_error", err),
				zap.Error(qerr),
			)
			continue
		}
		res.Requeued++
	}
	return res, errors.Join(requeueErrs...)
}
