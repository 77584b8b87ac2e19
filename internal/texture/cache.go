package texture

import (
	"fmt"
	"image"
	"sync"
)

// Resolver resolves an image reference to a decoded NRGBA image.
type Resolver interface {
	Resolve(ref string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error // load failure, kept so a broken file is read once
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by reference. Returns nil if it cannot
// be found or decoded.
func (c *Cache) Resolve(ref string) *image.NRGBA {
	img, _ := c.Load(ref)
	return img
}

// Load is Resolve with the failure reason.
func (c *Cache) Load(ref string) (*image.NRGBA, error) {
	path, ok := c.index.ResolvePath(ref)
	if !ok {
		return nil, fmt.Errorf("texture: %q not found", ref)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached files, failed loads included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
