// Package cache provides the LRU result cache used to memoize per-file
// analysis. The cache is keyed by file identity plus a content fingerprint,
// so a changed file never serves a stale report.
package cache

import (
	"container/list"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 500

// EstimatedBytesPerEntry approximates the in-memory cost of one cached
// report, used for the footprint figure in Stats.
const EstimatedBytesPerEntry = 512.0

// Key builds a cache key from a file path, declared language, and content.
// The fingerprint is an order-sensitive hash over all content bytes:
// identical content at the same path always yields the same key.
func Key(path, language string, content []byte) string {
	sum := xxhash.Sum64(content)
	var b strings.Builder
	b.Grow(len(path) + len(language) + 18)
	b.WriteString(path)
	b.WriteByte(':')
	b.WriteString(language)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(sum, 16))
	return b.String()
}

type entry struct {
	key   string
	value any
}

// ResultCache is a fixed-capacity key/value store with least-recently-used
// eviction and hit/miss accounting. Entries only disappear through capacity
// eviction, Delete, Clear, or Resize; there is no time-based expiry.
//
// A single mutex serializes all operations: the cache is the only structure
// mutated by concurrent batch workers, and work per entry is short.
type ResultCache struct {
	mu        sync.Mutex
	capacity  int
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	hits      int64
	misses    int64
	evictions int64
}

// New creates a ResultCache. Capacity values below 1 fall back to
// DefaultCapacity.
func New(capacity int) *ResultCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value for key. A hit moves the entry to the
// most-recently-used position.
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return el.Value.(*entry).value, true
}

// Set inserts or overwrites the value for key. When the cache is at
// capacity, the single least-recently-used entry is evicted first.
func (c *ResultCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
}

// Delete removes key if present.
func (c *ResultCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

// Resize changes the capacity, evicting least-recently-used entries until
// the cache fits. Values below 1 are clamped to 1.
func (c *ResultCache) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	for c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Clear removes all entries and resets counters.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// evictOldest drops the least-recently-used entry. Caller holds the lock.
func (c *ResultCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry).key)
	c.evictions++
}

// Stats reports cache usage and effectiveness.
type Stats struct {
	Size              int     `json:"size"`
	Capacity          int     `json:"capacity"`
	Hits              int64   `json:"hits"`
	Misses            int64   `json:"misses"`
	Evictions         int64   `json:"evictions"`
	HitRate           float64 `json:"hit_rate"`
	EstimatedMemoryKB float64 `json:"estimated_memory_kb"`
}

// Stats returns a snapshot of the cache counters.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	size := c.order.Len()
	return Stats{
		Size:              size,
		Capacity:          c.capacity,
		Hits:              c.hits,
		Misses:            c.misses,
		Evictions:         c.evictions,
		HitRate:           hitRate,
		EstimatedMemoryKB: float64(size) * EstimatedBytesPerEntry / 1024,
	}
}
