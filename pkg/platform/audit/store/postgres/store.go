package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	audit "titling/pkg/platform/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS customer_history (
	id          UUID PRIMARY KEY,
	customer_id TEXT NOT NULL,
	entry_ts    TEXT NOT NULL,
	user_name   TEXT NOT NULL,
	description TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS customer_history_customer_idx ON customer_history (customer_id, recorded_at);
`

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store archives change-log entries in the customer_history table.
type Store struct {
	db dbExecutor
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// EnsureSchema creates the archive table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create customer_history: %w", err)
	}
	return nil
}

// Append inserts events in one round trip. Re-sent events keep their id and
// are ignored.
func (s *Store) Append(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	const query = `
		INSERT INTO customer_history (id, customer_id, entry_ts, user_name, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, e := range events {
		eventID, err := uuid.Parse(e.ID)
		if err != nil {
			eventID = uuid.New()
		}
		batch.Queue(query, eventID, e.CustomerID, e.Timestamp, e.User, e.Description)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}
	return nil
}

// ListByCustomer returns a customer's archived entries in insertion order.
func (s *Store) ListByCustomer(ctx context.Context, customerID string) ([]audit.Event, error) {
	const query = `
		SELECT id, customer_id, entry_ts, user_name, description
		FROM customer_history
		WHERE customer_id = $1
		ORDER BY recorded_at, entry_ts
	`
	rows, err := s.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var (
			eventID uuid.UUID
			e       audit.Event
		)
		if err := rows.Scan(&eventID, &e.CustomerID, &e.Timestamp, &e.User, &e.Description); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.ID = eventID.String()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
