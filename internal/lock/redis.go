package lock

import (
	"context"
	"time"

	"github.com/Domenick1991/tripcomposer/config"
	"github.com/redis/go-redis/v9"
)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(cfg config.RedisConfig, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// Acquire reports false when key is already held.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (bool, error) {
	return l.client.SetNX(ctx, idempotencyKey(key), "locked", l.ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, idempotencyKey(key)).Err()
}

func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}

func idempotencyKey(key string) string {
	return "lock:idempotency:" + key
}
