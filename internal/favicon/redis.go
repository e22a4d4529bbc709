package favicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces favicon entries in a shared redis.
const KeyPrefix = "goodneighbor:favicon:"

func cacheKey(domain string) string {
	return KeyPrefix + domain
}

// RedisCache keeps icons in redis so they survive restarts and can be
// shared by several instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, domain string) (*Result, error) {
	data, err := c.client.Get(ctx, cacheKey(domain)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached favicon: %w", err)
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached favicon: %w", err)
	}
	c.hits.Add(1)
	return &r, nil
}

func (c *RedisCache) Set(ctx context.Context, domain string, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal favicon: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(domain), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache favicon: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context, domain string) error {
	if domain != "" {
		if err := c.client.Del(ctx, cacheKey(domain)).Err(); err != nil {
			return fmt.Errorf("failed to delete cached favicon: %w", err)
		}
		return nil
	}

	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush favicon cache: %w", err)
	}
	return nil
}

// Stats counts keys with a SCAN; Size is 0 when redis cannot be reached.
func (c *RedisCache) Stats(ctx context.Context) Stats {
	size := 0
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		size++
	}
	return Stats{
		Size:       size,
		TTLSeconds: int64(c.ttl / time.Second),
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Redis:      true,
	}
}
