// Package publisher archives change-log entries and forwards them to the
// configured sinks, synchronously or through a bounded buffer.
package publisher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	audit "titling/pkg/platform/audit"
)

// Publisher writes events to the store, then to every sink. Sink failures are
// logged and do not fail Emit.
type Publisher struct {
	store  audit.Store
	sinks  []audit.Sink
	logger *zap.Logger

	buffer    chan []audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit enqueue into a buffer of size n drained by a
// background goroutine. Emit returns audit.ErrBufferFull when it is full.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan []audit.Event, n)
		}
	}
}

func WithSink(s audit.Sink) Option {
	return func(p *Publisher) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records events. In async mode it only enqueues.
func (p *Publisher) Emit(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	if p.buffer == nil {
		return p.write(ctx, events)
	}
	select {
	case p.buffer <- events:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return audit.ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, customerID string) ([]audit.Event, error) {
	return p.store.ListByCustomer(ctx, customerID)
}

// Close stops accepting events and waits for buffered ones to be written.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for events := range p.buffer {
		if err := p.write(context.Background(), events); err != nil {
			p.logger.Warn("change log archive failed", zap.Error(err), zap.Int("events", len(events)))
		}
	}
}

func (p *Publisher) write(ctx context.Context, events []audit.Event) error {
	if err := p.store.Append(ctx, events...); err != nil {
		return err
	}
	for _, s := range p.sinks {
		if err := s.Publish(ctx, events); err != nil {
			p.logger.Warn("change log sink failed", zap.Error(err), zap.String("customer_id", events[0].CustomerID))
		}
	}
	return nil
}
