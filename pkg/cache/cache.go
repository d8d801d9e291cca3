package cache

import (
	"sync"
	"time"
)

// entry is a cached string value with expiration
type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is a small in-memory string cache with TTL. The availability
// deriver uses it to memoize per-berth status labels between requests.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*entry
}

// New creates a new cache
func New() *Cache {
	return &Cache{items: map[string]*entry{}}
}

// Set stores a value in the cache with a given TTL
func (c *Cache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get retrieves a value from the cache if it hasn't expired
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.items[key]
	if !exists {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Delete removes a key from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*entry{}
}
