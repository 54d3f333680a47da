// Package memory provides an unbounded in-memory embedding cache.
package memory

import (
	"sync"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/cache"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is a map-backed EmbeddingCache that never evicts.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]float32
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string][]float32)}
}

// Get returns a copy of the cached vector for text.
func (c *Cache) Get(text string) ([]float32, bool) {
	c.mu.RLock()
	v, ok := c.entries[cache.Key(text)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return domain.CloneVector(v), true
}

// Set stores a copy of vector for text.
func (c *Cache) Set(text string, vector []float32) {
	v := domain.CloneVector(vector)
	c.mu.Lock()
	c.entries[cache.Key(text)] = v
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]float32)
	c.mu.Unlock()
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
