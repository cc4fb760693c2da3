package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "titling/pkg/platform/audit"
	"titling/pkg/platform/audit/store/memory"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, events []audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return s.err
}

func entry(customerID, description string) audit.Event {
	return audit.Event{CustomerID: customerID, Timestamp: "2024-01-01T00:00:00.000Z", User: "Sistema CRM", Description: description}
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), entry("c-1", "Actualizó la Ficha Básica de Información."))
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Actualizó la Ficha Básica de Información.", events[0].Description)
	assert.NotEmpty(t, events[0].ID)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), entry("c-1", "d")))

	require.Eventually(t, func() bool {
		events, _ := pub.List(context.Background(), "c-1")
		return len(events) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), entry("c-1", "d")))
	}

	pub.Close()

	events, err := store.ListByCustomer(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- pub.Emit(context.Background(), entry("c-1", "d"))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, audit.ErrBufferFull)
		}
	}
}

func TestPublisher_SinksReceiveEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("broker down")}
	pub := NewPublisher(store, WithSink(failing), WithSink(ok))
	defer pub.Close()

	err := pub.Emit(context.Background(), entry("c-1", "a"), entry("c-1", "b"))

	require.NoError(t, err, "sink failures are not surfaced")
	assert.Len(t, ok.events, 2)
	assert.Len(t, failing.events, 2)
}

func TestPublisher_KeepsCustomersApart(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), entry("c-1", "uno")))
	require.NoError(t, pub.Emit(context.Background(), entry("c-2", "dos")))

	first, err := pub.List(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "uno", first[0].Description)

	second, err := pub.List(context.Background(), "c-2")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "dos", second[0].Description)
}

func TestPublisher_EmptyEmitIsNoop(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background()))
	recent, _ := store.ListRecent(context.Background(), 10)
	assert.Empty(t, recent)
}
