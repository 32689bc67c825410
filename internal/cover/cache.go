package cover

import "sync"

// Cache memoizes results by raw identifier for the life of the process.
// Entries are never evicted or refreshed; Len exposes the growth.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

func (c *Cache) Get(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

// Store writes r under key. Concurrent writers for the same key: last write wins.
func (c *Cache) Store(key string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
