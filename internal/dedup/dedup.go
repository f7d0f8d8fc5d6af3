// Package dedup provides a bounded membership cache over kill IDs so a
// ref seen in consecutive feed polls is resolved and stored only once.
package dedup

import "sync"

// Cache is a fixed-capacity FIFO membership cache. When full, marking a
// new ID evicts the oldest marked ID. All methods are safe for concurrent
// use and O(1) amortized.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ring     []int64
	head     int
	size     int
	present  map[int64]struct{}
}

// DefaultCapacity bounds the cache when no explicit capacity is given.
const DefaultCapacity = 1000

// New creates a cache holding at most capacity IDs. Non-positive capacity
// falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ring:     make([]int64, capacity),
		present:  make(map[int64]struct{}, capacity),
	}
}

// Seen reports whether id is currently tracked.
func (c *Cache) Seen(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.present[id]
	return ok
}

// Mark records id as seen. Marking an already-tracked ID is a no-op; the
// original FIFO position is kept.
func (c *Cache) Mark(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.present[id]; ok {
		return
	}

	if c.size == c.capacity {
		oldest := c.ring[c.head]
		delete(c.present, oldest)
		c.head = (c.head + 1) % c.capacity
		c.size--
	}

	tail := (c.head + c.size) % c.capacity
	c.ring[tail] = id
	c.present[id] = struct{}{}
	c.size++
}

// Len returns the number of tracked IDs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
