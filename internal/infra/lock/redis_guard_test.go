package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisGuard_FailsOpenWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	g := NewRedisGuard(rdb, time.Second, nil)
	ctx := context.Background()
	assert.True(t, g.Acquire(ctx, "deal-sync:1"))
	assert.True(t, g.Acquire(ctx, "deal-sync:1"))
	assert.NotPanics(t, func() { g.Release(ctx, "deal-sync:1") })
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}
