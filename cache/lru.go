package cache

import (
	"container/list"
	"context"
	"sync"
)

// LRU is a size-bounded in-memory BlockCache with least-recently-used
// eviction.
type LRU struct {
	mu       sync.Mutex
	capacity int64 // bytes
	used     int64
	order    *list.List // front = most recently used
	entries  map[Key]*list.Element
}

type lruEntry struct {
	key  Key
	data []byte
}

// NewLRU creates an LRU block cache bounded to capacity bytes.
// capacity defaults to 64MB if <= 0.
func NewLRU(capacity int64) *LRU {
	if capacity <= 0 {
		capacity = 64 << 20
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[Key]*list.Element),
	}
}

// Get returns a cached block. ok=false if missing.
func (c *LRU) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).data, true
}

// Set caches a block, evicting least-recently-used entries as needed.
// Blocks larger than the total capacity are not admitted.
func (c *LRU) Set(_ context.Context, key Key, b []byte) {
	if int64(len(b)) > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*lruEntry)
		c.used += int64(len(b)) - int64(len(entry.data))
		entry.data = b
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&lruEntry{key: key, data: b})
		c.entries[key] = el
		c.used += int64(len(b))
	}

	for c.used > c.capacity {
		c.evictOldest()
	}
}

// Invalidate drops all entries matching the predicate.
func (c *LRU) Invalidate(match func(Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.entries {
		if match(key) {
			c.used -= int64(len(el.Value.(*lruEntry).data))
			c.order.Remove(el)
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached blocks.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// UsedBytes returns the total size of cached blocks.
func (c *LRU) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *LRU) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*lruEntry)
	c.used -= int64(len(entry.data))
	c.order.Remove(el)
	delete(c.entries, entry.key)
}
