package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/logger"
)

// NewRedisClient connects and pings addr.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisGuard is a short-lived SETNX lock shared by every API instance. It
// fails open: when Redis is unreachable the caller proceeds.
type RedisGuard struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

func NewRedisGuard(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl, prefix: "leadboard:", log: logger.Or(log)}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) bool {
	ok, err := g.rdb.SetNX(ctx, g.prefix+key, 1, g.ttl).Result()
	if err != nil {
		g.log.Warn("guard unavailable, proceeding", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}

func (g *RedisGuard) Release(ctx context.Context, key string) {
	if err := g.rdb.Del(ctx, g.prefix+key).Err(); err != nil {
		g.log.Warn("guard release failed", zap.String("key", key), zap.Error(err))
	}
}
