package utils

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value    V
	cachedAt time.Time
}

// Cache is a keyed in-memory cache whose entries expire after a fixed TTL.
// A zero or negative TTL, or a nil *Cache, disables caching.
type Cache[K comparable, V any] struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[K]cacheEntry[V]
	mutex   sync.RWMutex
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:     ttl,
		now:     time.Now,
		entries: map[K]cacheEntry[V]{},
	}
}

// WithClock replaces the time source, for tests.
func (c *Cache[K, V]) WithClock(clock Clock) *Cache[K, V] {
	c.now = clock.Now
	return c
}

func (c *Cache[K, V]) Set(key K, value V) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, cachedAt: c.now()}
}

// Get returns the cached value for key if it has not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}
