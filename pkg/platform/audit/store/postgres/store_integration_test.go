//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "titling/pkg/platform/audit"
	"titling/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = New(s.pg.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.pg.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "customer_history"))
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	err := s.store.Append(ctx,
		audit.Event{CustomerID: "c-1", Timestamp: "2024-01-01T00:00:00.000Z", User: "Sistema CRM", Description: "primero"},
		audit.Event{CustomerID: "c-1", Timestamp: "2024-01-01T00:00:01.000Z", User: "Sistema CRM", Description: "segundo"},
		audit.Event{CustomerID: "c-2", Timestamp: "2024-01-01T00:00:02.000Z", User: "Sistema CRM (CSV)", Description: "otro"},
	)
	s.Require().NoError(err)

	events, err := s.store.ListByCustomer(ctx, "c-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("primero", events[0].Description)
	s.Equal("segundo", events[1].Description)
	s.NotEmpty(events[0].ID)
}

func (s *PostgresStoreSuite) TestAppendIsIdempotentByID() {
	ctx := context.Background()
	e := audit.Event{ID: uuid.NewString(), CustomerID: "c-1", Timestamp: "t", User: "u", Description: "d"}

	s.Require().NoError(s.store.Append(ctx, e))
	s.Require().NoError(s.store.Append(ctx, e))

	events, err := s.store.ListByCustomer(ctx, "c-1")
	s.Require().NoError(err)
	s.Len(events, 1)
	s.Equal(e.ID, events[0].ID)
}

func (s *PostgresStoreSuite) TestEmptyAppend() {
	s.NoError(s.store.Append(context.Background()))
}
