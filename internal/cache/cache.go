// Package cache provides the injected key-value cache used to memoize
// statistics responses. Writers invalidate, they never update; a stale
// read between invalidation and the next query is bounded by the TTL.
package cache

import (
	"sync"
	"time"
)

// Cache is the capability the service layer depends on.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	DeleteMany(keys ...string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry)}
}

// Get returns the live value for key, dropping it if expired.
func (c *Memory) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.value, true
}

// Set stores value under key for ttl.
func (c *Memory) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// DeleteMany removes the given keys. Missing keys are ignored.
func (c *Memory) DeleteMany(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
}
