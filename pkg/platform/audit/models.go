// Package audit fans customer change-log entries out to secondary sinks: a
// queryable archive, an event stream and a retry queue for entries the
// primary store did not acknowledge.
//
// Sinks are best-effort. A failing sink never fails the mutation that
// produced the entries.
package audit

import (
	"context"
	"errors"
)

// Event is one change-log entry tagged with the customer it belongs to.
// Timestamp keeps the ISO-8601 text written to the customer's history.
type Event struct {
	ID          string `json:"id,omitempty"`
	CustomerID  string `json:"customerId"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
	Description string `json:"description"`
}

// Batch groups the entries of one mutation. Attempts counts failed
// deliveries so far.
type Batch struct {
	CustomerID string  `json:"customerId"`
	Events     []Event `json:"events"`
	Attempts   int     `json:"attempts"`
}

// Store archives events for later queries.
type Store interface {
	Append(ctx context.Context, events ...Event) error
	ListByCustomer(ctx context.Context, customerID string) ([]Event, error)
}

// Sink receives events after they are archived, e.g. an event stream.
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}

// Queue holds batches awaiting redelivery, oldest first.
type Queue interface {
	Enqueue(ctx context.Context, batch Batch) error
	Dequeue(ctx context.Context, max int) ([]Batch, error)
	Len(ctx context.Context) (int64, error)
}

// ErrBufferFull is returned by asynchronous publishers that cannot accept
// more events.
var ErrBufferFull = errors.New("audit buffer full")
