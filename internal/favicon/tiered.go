package favicon

import (
	"context"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

// TieredCache reads memory first and redis second. Redis hits are copied
// into memory. Redis failures are logged and treated as misses so a redis
// outage never breaks lookups.
type TieredCache struct {
	memory *MemoryCache
	redis  *RedisCache
	logger logger.Logger
}

func NewTieredCache(memory *MemoryCache, redis *RedisCache, log logger.Logger) *TieredCache {
	return &TieredCache{memory: memory, redis: redis, logger: log.Named("favicon-cache")}
}

func (c *TieredCache) Get(ctx context.Context, domain string) (*Result, error) {
	if r, _ := c.memory.Get(ctx, domain); r != nil {
		return r, nil
	}
	r, err := c.redis.Get(ctx, domain)
	if err != nil {
		c.logger.Warn("redis favicon lookup failed", logger.String("domain", domain), logger.Error(err))
		return nil, nil
	}
	if r != nil {
		_ = c.memory.Set(ctx, domain, *r)
	}
	return r, nil
}

func (c *TieredCache) Set(ctx context.Context, domain string, r Result) error {
	_ = c.memory.Set(ctx, domain, r)
	if err := c.redis.Set(ctx, domain, r); err != nil {
		c.logger.Warn("redis favicon store failed", logger.String("domain", domain), logger.Error(err))
	}
	return nil
}

func (c *TieredCache) Clear(ctx context.Context, domain string) error {
	_ = c.memory.Clear(ctx, domain)
	return c.redis.Clear(ctx, domain)
}

// Stats reports the memory tier, flagged as backed by redis.
func (c *TieredCache) Stats(ctx context.Context) Stats {
	s := c.memory.Stats(ctx)
	s.Redis = true
	return s
}

// Sweep expires the memory tier. Redis expires keys on its own.
func (c *TieredCache) Sweep() int {
	return c.memory.Sweep()
}
