package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through JSON cache for API snapshots.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, out any) (bool, error)
	Delete(ctx context.Context, key string) error
	Key(operation, id string) string
	Close() error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis at the given URL (redis://...). The prefix
// namespaces all keys.
func NewRedis(url, prefix string) (Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &redisCache{client: redis.NewClient(opts), prefix: prefix}, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return r.client.Set(ctx, key, b, ttl).Err()
}

// Get unmarshals the cached value into out. A miss returns (false, nil).
func (r *redisCache) Get(ctx context.Context, key string, out any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) Key(operation, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, operation, id)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
