package resolver

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/mrz1836/recforge/internal/constants"
)

// Cache maps a candidate-list key to the index of the strategy that last won.
// It is bounded, safe for concurrent use, and owned by one execution context.
type Cache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, int]
}

// NewCache creates a cache holding at most size entries. A non-positive size
// falls back to constants.DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = constants.DefaultCacheSize
	}
	lru, err := simplelru.NewLRU[string, int](size, nil)
	if err != nil {
		// NewLRU only fails for non-positive sizes.
		panic(err)
	}
	return &Cache{lru: lru}
}

// Get returns the cached winning index for key.
func (c *Cache) Get(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put records idx as the winner for key, replacing any previous entry.
func (c *Cache) Put(key string, idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, idx)
}

// Invalidate removes key only if it still maps to stale. A concurrent caller
// that already replaced the entry with a fresh winner keeps its result.
func (c *Cache) Invalidate(key string, stale int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.lru.Peek(key)
	if !ok || cur != stale {
		return false
	}
	return c.lru.Remove(key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
