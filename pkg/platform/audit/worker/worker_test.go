package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "titling/pkg/platform/audit"
	"titling/pkg/platform/audit/queue"
)

type stubDeliverer struct {
	fail      map[string]bool
	delivered []string
}

func (d *stubDeliverer) Deliver(_ context.Context, b audit.Batch) error {
	if d.fail[b.CustomerID] {
		return errors.New("endpoint unavailable")
	}
	d.delivered = append(d.delivered, b.CustomerID)
	return nil
}

func TestDrain(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory()
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "ok"}))
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "retry"}))
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "exhausted", Attempts: 2}))

	d := &stubDeliverer{fail: map[string]bool{"retry": true, "exhausted": true}}
	w := NewWorker(q, d, WithMaxAttempts(3))

	res, err := w.Drain(ctx)

	require.NoError(t, err)
	assert.Equal(t, Result{Delivered: 1, Requeued: 1, Dropped: 1}, res)
	assert.Equal(t, []string{"ok"}, d.delivered)

	left, err := q.Dequeue(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "retry", left[0].CustomerID)
	assert.Equal(t, 1, left[0].Attempts)
}

// flakyQueue rejects every Enqueue after the initial fill.
type flakyQueue struct {
	*queue.Memory
	rejectEnqueue bool
}

func (q *flakyQueue) Enqueue(ctx context.Context, b audit.Batch) error {
	if q.rejectEnqueue {
		return errors.New("queue unavailable")
	}
	return q.Memory.Enqueue(ctx, b)
}

func TestDrainKeepsGoingWhenRequeueFails(t *testing.T) {
	ctx := context.Background()
	q := &flakyQueue{Memory: queue.NewMemory()}
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "first-retry"}))
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "second-retry"}))
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "ok"}))
	q.rejectEnqueue = true

	d := &stubDeliverer{fail: map[string]bool{"first-retry": true, "second-retry": true}}
	w := NewWorker(q, d)

	res, err := w.Drain(ctx)

	require.Error(t, err)
	assert.Equal(t, Result{Delivered: 1, Lost: 2}, res)
	assert.Equal(t, []string{"ok"}, d.delivered)
}

func TestDrainRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory()
	for range 5 {
		require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "c"}))
	}
	w := NewWorker(q, &stubDeliverer{}, WithBatchSize(2))

	res, err := w.Drain(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Delivered)
	n, _ := q.Len(ctx)
	assert.Equal(t, int64(3), n)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := queue.NewMemory()
	require.NoError(t, q.Enqueue(ctx, audit.Batch{CustomerID: "c"}))
	d := &stubDeliverer{}
	w := NewWorker(q, d, WithInterval(5*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, _ := q.Len(context.Background())
		return n == 0
	}, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
