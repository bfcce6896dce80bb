package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores entries in Redis with native key expiry.
type RedisBackend struct {
	redis  *redis.Client
	prefix string
}

// NewRedisBackend creates a Redis backend. Keys are stored under prefix.
func NewRedisBackend(redisClient *redis.Client, prefix string) *RedisBackend {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisBackend{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.redis.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return b.redis.Set(ctx, b.prefix+key, data, ttl).Err()
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.redis.Del(ctx, b.prefix+key).Err()
}
