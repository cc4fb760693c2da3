//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"titling/internal/platform/config"
	platformredis "titling/internal/platform/redis"
)

// RetryQueueKey is the list key integration tests run the history retry
// queue under, apart from the production key.
const RetryQueueKey = "titling:test:history:retry"

// Redis is a throwaway Redis for the history retry queue, connected through
// the same client constructor the server uses.
type Redis struct {
	URL    string
	Client *platformredis.Client
}

// NewRedis starts redis:7-alpine and connects to it. The container and
// client are released when t finishes.
func NewRedis(t *testing.T) *Redis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	client, err := platformredis.New(ctx, config.RedisConfig{
		URL:          url,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &Redis{URL: url, Client: client}
}

// ResetQueue deletes the retry queue list so each test starts empty.
func (r *Redis) ResetQueue(ctx context.Context) error {
	return r.Client.Del(ctx, RetryQueueKey).Err()
}
