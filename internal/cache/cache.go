package cache

import (
	"sync"
	"time"
)

// Cache is a single-value TTL cache. It is created with New and injected
// wherever a cached load is wanted; there is no package-level state.
type Cache[T any] struct {
	mu    sync.Mutex
	val   T
	ok    bool
	setAt time.Time
	ttl   time.Duration
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl}
}

// Get returns the cached value if one is present and still fresh.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok || time.Since(c.setAt) > c.ttl {
		var zero T
		return zero, false
	}
	return c.val, true
}

func (c *Cache[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = v
	c.setAt = time.Now()
	c.ok = true
}

// Clear drops the cached value so the next Get misses.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.val = zero
	c.ok = false
}
