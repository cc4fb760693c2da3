//go:build integration

package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	audit "titling/pkg/platform/audit"
	"titling/pkg/testutil/containers"
)

type RedisQueueSuite struct {
	suite.Suite
	redis *containers.Redis
	queue *Redis
}

func TestRedisQueueSuite(t *testing.T) {
	suite.Run(t, new(RedisQueueSuite))
}

func (s *RedisQueueSuite) SetupSuite() {
	s.redis = containers.NewRedis(s.T())
	s.queue = NewRedis(s.redis.Client, containers.RetryQueueKey)
}

func (s *RedisQueueSuite) SetupTest() {
	s.Require().NoError(s.redis.ResetQueue(context.Background()))
}

func (s *RedisQueueSuite) TestHealth() {
	s.NoError(s.redis.Client.Health(context.Background()))
}

func (s *RedisQueueSuite) TestRoundTrip() {
	ctx := context.Background()
	batch := audit.Batch{
		CustomerID: "c-1",
		Attempts:   2,
		Events:     []audit.Event{{CustomerID: "c-1", Timestamp: "2024-01-01T00:00:00.000Z", User: "Sistema CRM", Description: "d"}},
	}
	s.Require().NoError(s.queue.Enqueue(ctx, batch))
	s.Require().NoError(s.queue.Enqueue(ctx, audit.Batch{CustomerID: "c-2"}))

	n, err := s.queue.Len(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	out, err := s.queue.Dequeue(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(batch, out[0])

	out, err = s.queue.Dequeue(ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("c-2", out[0].CustomerID)
}

func (s *RedisQueueSuite) TestDequeueEmpty() {
	out, err := s.queue.Dequeue(context.Background(), 5)
	s.NoError(err)
	s.Empty(out)
}
