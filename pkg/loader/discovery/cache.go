package discovery

import (
	"strings"
	"sync"
)

// Cache memoizes lookups per directory and name list. Misses are stored as "".
type Cache struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]string),
	}
}

func (c *Cache) Get(dir string, names []string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[makeCacheKey(dir, names)]
	return val, ok
}

func (c *Cache) Set(dir string, names []string, configPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[makeCacheKey(dir, names)] = configPath
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]string)
}

func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Names keep their order in the key: precedence differs between orderings.
func makeCacheKey(dir string, names []string) string {
	return dir + "|" + strings.Join(names, "|")
}
