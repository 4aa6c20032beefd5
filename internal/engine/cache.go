package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bizlens/bizlens/internal/model"
)

const (
	// DefaultCacheTTL is how long a completed crawl stays reusable.
	DefaultCacheTTL = 24 * time.Hour
	// DefaultCacheSize bounds the number of cached results.
	DefaultCacheSize = 100
)

// ResultCache is a concurrent-safe cache of completed crawl results keyed
// by source URL, with TTL expiry and oldest-insertion eviction under size
// pressure. The clock is injectable so tests can expire entries without
// sleeping.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // insertion order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	hits       atomic.Int64
	misses     atomic.Int64
}

type cacheEntry struct {
	result    *model.CrawlResult
	createdAt time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewResultCache creates a ResultCache with the given capacity and TTL.
func NewResultCache(maxEntries int, ttl time.Duration) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithNow sets the cache clock. Test hook.
func (c *ResultCache) WithNow(fn func() time.Time) *ResultCache {
	c.now = fn
	return c
}

// Get retrieves a cached result. Returns nil on miss or expiry.
func (c *ResultCache) Get(url string) *model.CrawlResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[url]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, url)
		c.removeFromOrder(url)
		c.misses.Add(1)
		return nil
	}
	c.hits.Add(1)
	return entry.result
}

// Put stores a result, evicting the oldest insertion when at capacity.
// Results are treated as immutable once stored.
func (c *ResultCache) Put(url string, result *model.CrawlResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[url]; ok {
		c.entries[url] = &cacheEntry{result: result, createdAt: c.now()}
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[url] = &cacheEntry{result: result, createdAt: c.now()}
	c.order = append(c.order, url)
}

// Len reports the current entry count.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache performance statistics.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	maxEntries := c.maxEntries
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

func (c *ResultCache) removeFromOrder(url string) {
	for i, k := range c.order {
		if k == url {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
