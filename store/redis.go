package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xapay/xapay-go"
)

// keyPrefix namespaces engine state within a shared Redis instance.
const keyPrefix = "xapay:v1:"

// Redis is a Redis-backed store. Apply batches all writes into one MULTI/EXEC
// pipeline so later invocations never observe a partial commit.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements xapay.Store.
func (r *Redis) Get(ctx context.Context, key []byte) ([]byte, error) {
	value, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, xapay.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

// Has implements xapay.Store.
func (r *Redis) Has(ctx context.Context, key []byte) (bool, error) {
	n, err := r.client.Exists(ctx, redisKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Apply implements xapay.Store.
func (r *Redis) Apply(ctx context.Context, writes []xapay.Write) error {
	if len(writes) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, w := range writes {
		pipe.Set(ctx, redisKey(w.Key), w.Value, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis apply: %w", err)
	}
	return nil
}

// redisKey renders a binary store key as a namespaced Redis key.
func redisKey(key []byte) string {
	return keyPrefix + string(key)
}
