package thumbs

import "sync"

// MemoryCache is an in-process thumbnail cache. Thumbnails are lost on
// restart and re-rendered on demand.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.items[key]
	return data, ok, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = data
	return nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	return nil
}
