package reportcache

import (
	"strings"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Cache is an in-memory TTL cache for built reports. It is the only shared
// mutable state in the reporting path, guarded by a single mutex; lookups
// and evictions are map operations, never report computation.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

type entry struct {
	value     any
	expiresAt time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, dropping it when expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key; the TTL counts from insertion.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// InvalidateMatching removes every entry whose key contains pattern and
// returns how many were dropped.
func (c *Cache) InvalidateMatching(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Purge drops all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// CleanExpired removes expired entries and returns how many were dropped.
// Expired entries are also dropped lazily on Get; this exists for periodic
// housekeeping.
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Nop is a cache that stores nothing, for tests and disabled caching.
type Nop struct{}

func (Nop) Get(string) (any, bool)        { return nil, false }
func (Nop) Set(string, any)               {}
func (Nop) InvalidateMatching(string) int { return 0 }
func (Nop) Purge()                        {}
