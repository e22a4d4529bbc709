package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

// DefaultSweepInterval is how often expired favicon entries are dropped.
const DefaultSweepInterval = 10 * time.Minute

// Sweepable is a cache that can drop its expired entries.
type Sweepable interface {
	Sweep() int
}

// CacheSweeper periodically removes expired entries from a cache so they do
// not hold memory until the next lookup of the same domain.
type CacheSweeper struct {
	cache    Sweepable
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewCacheSweeper(cache Sweepable, log logger.Logger, interval time.Duration) *CacheSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &CacheSweeper{
		cache:    cache,
		logger:   log.Named("cache-sweeper"),
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop and returns immediately.
func (s *CacheSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it. Safe to call more than once.
func (s *CacheSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}

// Sweep runs one pass and returns the number of removed entries.
func (s *CacheSweeper) Sweep() int {
	n := s.cache.Sweep()
	if n > 0 {
		s.logger.Info("expired favicon cache entries removed", logger.Int("removed", n))
	} else {
		s.logger.Debug("no expired favicon cache entries")
	}
	return n
}
