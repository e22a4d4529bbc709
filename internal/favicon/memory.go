package favicon

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is an LRU cache whose entries also expire after a TTL.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	lru     *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	hits   int64
	misses int64
}

type memoryItem struct {
	domain  string
	value   Result
	expires time.Time
}

func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, domain string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[domain]
	if !ok {
		c.misses++
		return nil, nil
	}
	item := el.Value.(*memoryItem)
	if !c.now().Before(item.expires) {
		c.remove(el)
		c.misses++
		return nil, nil
	}

	c.lru.MoveToFront(el)
	c.hits++
	v := item.value
	return &v, nil
}

// Set inserts or refreshes domain, evicting the least recently used entry
// when the cache is full.
func (c *MemoryCache) Set(_ context.Context, domain string, r Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[domain]; ok {
		item := el.Value.(*memoryItem)
		item.value = r
		item.expires = c.now().Add(c.ttl)
		c.lru.MoveToFront(el)
		return nil
	}

	for c.lru.Len() >= c.maxSize {
		c.remove(c.lru.Back())
	}
	c.items[domain] = c.lru.PushFront(&memoryItem{domain: domain, value: r, expires: c.now().Add(c.ttl)})
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, domain string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if domain == "" {
		c.items = make(map[string]*list.Element)
		c.lru.Init()
		return nil
	}
	if el, ok := c.items[domain]; ok {
		c.remove(el)
	}
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*memoryItem).expires) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *MemoryCache) Stats(context.Context) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:       c.lru.Len(),
		MaxSize:    c.maxSize,
		TTLSeconds: int64(c.ttl / time.Second),
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

func (c *MemoryCache) remove(el *list.Element) {
	c.lru.Remove(el)
	delete(c.items, el.Value.(*memoryItem).domain)
}
