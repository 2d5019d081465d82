// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"sync"

	"github.com/johnbendi/convex/cell"
	"github.com/johnbendi/convex/utils/linked"
)

// defaultCacheCapacity bounds a Cache created with NewCache. Content
// addressing means any evicted cell is simply re-resolved through the
// Store on next use, so eviction only costs a cache miss, never
// correctness.
const defaultCacheCapacity = 8192

// Cache is an in-process, hash-keyed cell cache with bounded size: a
// linked.Hashmap tracks insertion order so the oldest entry can be
// evicted in O(1) once the cache is full, giving simple FIFO
// eviction rather than unbounded growth.
type Cache struct {
	mu       sync.Mutex
	capacity int
	cells    *linked.Hashmap[cell.Hash, cell.Cell]
}

// NewCache returns an empty Cache with the default capacity.
func NewCache() *Cache {
	return NewCacheWithCapacity(defaultCacheCapacity)
}

// NewCacheWithCapacity returns an empty Cache that evicts its oldest
// entry once more than capacity distinct cells have been cached.
func NewCacheWithCapacity(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		cells:    linked.NewHashmap[cell.Hash, cell.Cell](),
	}
}

// Get returns the cached cell for h, if present.
func (c *Cache) Get(h cell.Hash) (cell.Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cells.Get(h)
}

// Put records v under its own hash, evicting the oldest entry first
// if the cache is at capacity.
func (c *Cache) Put(v cell.Cell) {
	h := v.Hash()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.cells.Get(h); !exists && c.cells.Len() >= c.capacity {
		if oldest, _, ok := c.cells.OldestEntry(); ok {
			c.cells.Delete(oldest)
		}
	}
	c.cells.Put(h, v)
}

// Len returns the number of distinct cells currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cells.Len()
}
