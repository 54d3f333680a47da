// Package lru provides a size-bounded embedding cache with least-recently-used eviction.
package lru

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/cache"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is an EmbeddingCache holding at most a fixed number of vectors.
// The underlying LRU is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, []float32]
	max     int
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lru cache size must be greater than zero, got %d: %w", size, domain.ErrInvalidInput)
	}
	entries, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("init lru cache: %w", err)
	}
	return &Cache{entries: entries, max: size}, nil
}

// Get returns a copy of the cached vector and marks it recently used.
func (c *Cache) Get(text string) ([]float32, bool) {
	v, ok := c.entries.Get(cache.Key(text))
	if !ok {
		return nil, false
	}
	return domain.CloneVector(v), true
}

// Set stores a copy of vector, evicting the least recently used entry when full.
func (c *Cache) Set(text string, vector []float32) {
	c.entries.Add(cache.Key(text), domain.CloneVector(vector))
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	return c.entries.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.max
}
