package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores each namespace as one hash so invalidation is a single DEL.
// Used when several clients (syncd plus CLIs) share one cache.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache. ttl <= 0 disables expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "cache:", ttl: ttl}
}

func (r *Redis) hashKey(namespace string) string {
	return r.prefix + namespace
}

// Get returns the cached value for (namespace, key).
func (r *Redis) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	val, err := r.client.HGet(ctx, r.hashKey(namespace), key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a value and refreshes the namespace TTL.
func (r *Redis) Set(ctx context.Context, namespace, key string, value []byte) error {
	hk := r.hashKey(namespace)
	if err := r.client.HSet(ctx, hk, key, value).Err(); err != nil {
		return err
	}
	if r.ttl > 0 {
		return r.client.Expire(ctx, hk, r.ttl).Err()
	}
	return nil
}

// Invalidate drops the whole namespace hash.
func (r *Redis) Invalidate(ctx context.Context, namespace string) error {
	return r.client.Del(ctx, r.hashKey(namespace)).Err()
}

// Close is a no-op; the redis client is owned by the caller.
func (r *Redis) Close() error { return nil }
