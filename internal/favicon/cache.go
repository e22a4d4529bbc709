package favicon

import (
	"context"
	"time"
)

// Cache stores discovered icons by domain (scheme://host).
type Cache interface {
	// Get returns nil on a miss.
	Get(ctx context.Context, domain string) (*Result, error)
	Set(ctx context.Context, domain string, r Result) error
	// Clear drops one domain, or everything when domain is empty.
	Clear(ctx context.Context, domain string) error
	Stats(ctx context.Context) Stats
}

type Stats struct {
	Size       int   `json:"size"`
	MaxSize    int   `json:"max_size"`
	TTLSeconds int64 `json:"ttl"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Redis      bool  `json:"redis"`
}

const (
	DefaultCacheTTL  = 24 * time.Hour
	DefaultCacheSize = 1000
)
