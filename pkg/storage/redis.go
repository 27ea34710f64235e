package storage

import (
	"context"
	"time"

	pkgredis "github.com/lunaria/storefront-core/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StorageKey(key string) string
}

// RedisBackend persists values under the client's storage namespace.
type RedisBackend struct {
	kv redisKV
}

// NewRedisBackend wraps an established redis client.
func NewRedisBackend(client *pkgredis.Client) *RedisBackend {
	return &RedisBackend{kv: client}
}

func (r *RedisBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.kv.Get(ctx, r.kv.StorageKey(key))
	if pkgredis.IsMissing(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisBackend) SetItem(ctx context.Context, key, value string) error {
	return r.kv.Set(ctx, r.kv.StorageKey(key), value, 0)
}

func (r *RedisBackend) RemoveItem(ctx context.Context, key string) error {
	return r.kv.Del(ctx, r.kv.StorageKey(key))
}
