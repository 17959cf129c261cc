// Package cache is a process-wide TTL key-value store. It is created once
// at startup and injected into every service that needs it; there is no
// package-level instance. Entries carry their own expiry, reads evict
// lazily, and a periodic Sweep bounds memory when read traffic is low.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  interface{}
	expiry time.Time
}

type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Set stores value under key with the cache's default TTL, overwriting any
// previous entry.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.defaultTTL)
}

func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	expiry := c.now().Add(ttl)
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiry: expiry}
	c.mu.Unlock()
}

// Get returns the value for key if it has not expired. Expired entries are
// deleted on the way out.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(item.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return item.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were purged.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	purged := 0
	for key, item := range c.entries {
		if !now.Before(item.expiry) {
			delete(c.entries, key)
			purged++
		}
	}
	return purged
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
