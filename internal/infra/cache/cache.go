// Package cache provides an in-memory TTL cache, used to keep hot product
// configuration out of the store on every transaction.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value   T
	expires time.Time
}

// InMemory is a thread-safe TTL cache.
type InMemory[T any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	set map[string]item[T]
}

// New creates a cache whose entries live for ttl. A background sweeper
// reclaims expired entries once per ttl.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		ttl: ttl,
		set: make(map[string]item[T]),
	}
	go c.sweep()
	return c
}

// Get returns the cached value, or false when absent or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	it, ok := c.set[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expires) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key for the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	c.set[key] = item[T]{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete evicts key. Used on product updates to avoid serving stale config.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.set, key)
	c.mu.Unlock()
}

func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.set {
			if now.After(it.expires) {
				delete(c.set, k)
			}
		}
		c.mu.Unlock()
	}
}
