package matomo

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const cacheTTL = time.Hour

// Cache stores introspection responses on disk so repeated generate/serve
// runs don't re-interrogate the instance.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string) *Cache {
	os.MkdirAll(dir, 0755)
	return &Cache{dir: dir}
}

// DefaultCacheDir is ~/.cache/mcp-matomo.
func DefaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "mcp-matomo")
}

func (c *Cache) cacheFile(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", hash[:8]))
}

// Get returns cached data if fresh, or nil if stale or missing.
func (c *Cache) Get(key string) []byte {
	path := c.cacheFile(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if time.Since(info.ModTime()) > cacheTTL {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// Put stores data under key.
func (c *Cache) Put(key string, data []byte) error {
	return os.WriteFile(c.cacheFile(key), data, 0644)
}

// Invalidate removes a cached entry.
func (c *Cache) Invalidate(key string) {
	os.Remove(c.cacheFile(key))
}
