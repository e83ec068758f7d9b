//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer backs the rate limiter windows and the badge lock.
type RedisContainer struct {
	Container testcontainers.Container
	Client    *redis.Client
}

// NewRedisContainer starts Redis and connects a client to it.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to reach redis at %s: %v", endpoint, err)
	}

	return &RedisContainer{
		Container: container,
		Client:    client,
	}
}

// Reset drops every key so limiter windows and lock leases do not leak
// between tests sharing the container.
func (r *RedisContainer) Reset(t *testing.T) {
	t.Helper()
	if err := r.Client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to reset redis: %v", err)
	}
}

// LeaseRemaining reports how long key has left to live, or 0 when it is gone
// or has no expiry.
func (r *RedisContainer) LeaseRemaining(t *testing.T, key string) int64 {
	t.Helper()
	ttl, err := r.Client.PTTL(context.Background(), key).Result()
	if err != nil {
		t.Fatalf("failed to read ttl of %s: %v", key, err)
	}
	if ttl < 0 {
		return 0
	}
	return ttl.Milliseconds()
}
