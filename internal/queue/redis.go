package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list holding queued generation IDs.
const DefaultKey = "generations:queue"

// RedisQueue is a Redis list used as a FIFO hand-off (LPUSH in, BRPOP out).
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue wraps an established Redis client.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes a generation ID for the worker to pick up.
func (q *RedisQueue) Enqueue(ctx context.Context, generationID string) error {
	if err := q.client.LPush(ctx, q.key, generationID).Err(); err != nil {
		return fmt.Errorf("queue: enqueue: %w", err)
	}
	return nil
}

// Dequeue blocks until an ID is available. BRPOP returns the key and the
// popped value; only the value matters here.
func (q *RedisQueue) Dequeue(ctx context.Context) (string, error) {
	result, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		return "", fmt.Errorf("queue: dequeue: %w", err)
	}
	if len(result) < 2 {
		return "", fmt.Errorf("queue: unexpected brpop reply %v", result)
	}
	return result[1], nil
}

var _ Queue = (*RedisQueue)(nil)
