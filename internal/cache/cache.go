package cache

import (
	"sync"
	"time"
)

// Item represents a cached item with expiration
type Item[V any] struct {
	Value      V
	Expiration time.Time
}

// Cache is a process-local in-memory cache with per-item expiration.
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex

	// Now is the clock used for expiry checks. Tests replace it.
	Now func() time.Time
}

// New creates a new cache
func New[V any]() *Cache[V] {
	return &Cache[V]{
		items: make(map[string]Item[V]),
		Now:   time.Now,
	}
}

// Put adds an item to the cache that stays valid for ttl.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item[V]{
		Value:      value,
		Expiration: c.Now().Add(ttl),
	}
}

// Get retrieves an unexpired item from the cache by key.
// The second return value indicates whether the key was found
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || !c.Now().Before(item.Expiration) {
		var zero V
		return zero, false
	}
	return item.Value, true
}

// InvalidateAll drops every entry.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item[V])
}

// Cleanup removes expired items from the cache and returns how many went.
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	removed := 0
	for k, v := range c.items {
		if !now.Before(v.Expiration) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
