// Package queue holds change-log batches awaiting redelivery.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	audit "titling/pkg/platform/audit"
)

// DefaultKey is the Redis list holding pending batches.
const DefaultKey = "titling:history:retry"

// Memory is a process-local FIFO queue.
type Memory struct {
	mu      sync.Mutex
	batches []audit.Batch
}

func NewMemory() *Memory {
	return &Memory{}
}

func (q *Memory) Enqueue(_ context.Context, batch audit.Batch) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches = append(q.batches, batch)
	return nil
}

func (q *Memory) Dequeue(_ context.Context, max int) ([]audit.Batch, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if max <= 0 {
		return nil, nil
	}
	if max > len(q.batches) {
		max = len(q.batches)
	}
	out := append([]audit.Batch{}, q.batches[:max]...)
	q.batches = q.batches[max:]
	return out, nil
}

func (q *Memory) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.batches)), nil
}

// Redis keeps batches as JSON in a list so they survive restarts.
type Redis struct {
	client redis.Cmdable
	key    string
}

func NewRedis(client redis.Cmdable, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key}
}

func (q *Redis) Enqueue(ctx context.Context, batch audit.Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue batch: %w", err)
	}
	return nil
}

// Dequeue pops up to max batches. Entries that no longer decode are dropped.
func (q *Redis) Dequeue(ctx context.Context, max int) ([]audit.Batch, error) {
	if max <= 0 {
		return nil, nil
	}
	raw, err := q.client.LPopCount(ctx, q.key, max).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue batches: %w", err)
	}
	out := make([]audit.Batch, 0, len(raw))
	for _, r := range raw {
		var b audit.Batch
		if json.Unmarshal([]byte(r), &b) == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (q *Redis) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
