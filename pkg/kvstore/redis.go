package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	KVKey(key string) string
}

// RedisBackend stores documents as plain redis strings without expiry.
type RedisBackend struct {
	client redisKV
}

func NewRedisBackend(client redisKV) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisBackend{client: client}, nil
}

func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Get(ctx, b.client.KVKey(key))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (b *RedisBackend) Write(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, b.client.KVKey(key), string(value), 0)
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.client.KVKey(key))
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}
