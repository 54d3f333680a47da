// Package cached provides an EmbeddingService decorator that consults an
// EmbeddingCache before calling the wrapped provider.
package cached

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Stats reports cache effectiveness since construction or the last reset.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns hits as a fraction of lookups, or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// EmbeddingService wraps another EmbeddingService with a cache.
// Only cache misses reach the wrapped service; a batch sends each distinct
// missing text once.
type EmbeddingService struct {
	inner  driven.EmbeddingService
	cache  driven.EmbeddingCache
	hits   atomic.Int64
	misses atomic.Int64
}

// New wraps inner with cache.
func New(inner driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{inner: inner, cache: cache}
}

// Embed returns the cached vector for text or computes and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.cache.Get(text); ok {
		s.hits.Add(1)
		logger.Debug("embedding cache hit (%d chars)", len(text))
		return v, nil
	}
	s.misses.Add(1)

	v, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Set(text, v)
	return v, nil
}

// EmbedBatch returns one vector per text, in order, computing only misses.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	missing := make(map[string][]int)
	var unique []string

	for i, text := range texts {
		if v, ok := s.cache.Get(text); ok {
			s.hits.Add(1)
			results[i] = v
			continue
		}
		s.misses.Add(1)
		if _, seen := missing[text]; !seen {
			unique = append(unique, text)
		}
		missing[text] = append(missing[text], i)
	}

	logger.Debug("embedding cache: %d hits, %d to embed (%d distinct)",
		len(texts)-countIndexes(missing), countIndexes(missing), len(unique))

	if len(unique) == 0 {
		return results, nil
	}

	embedded, err := s.inner.EmbedBatch(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(unique) {
		return nil, fmt.Errorf("received %d embeddings for %d texts", len(embedded), len(unique))
	}

	for i, text := range unique {
		s.cache.Set(text, embedded[i])
		for j, idx := range missing[text] {
			if j == 0 {
				results[idx] = embedded[i]
				continue
			}
			results[idx] = append([]float32(nil), embedded[i]...)
		}
	}

	return results, nil
}

// Stats returns hit and miss counts and the current cache size.
func (s *EmbeddingService) Stats() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: s.cache.Size(),
	}
}

// ClearCache empties the cache and resets the counters.
func (s *EmbeddingService) ClearCache() {
	s.cache.Clear()
	s.hits.Store(0)
	s.misses.Store(0)
}

// Dimensions delegates to the wrapped service.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName delegates to the wrapped service.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close delegates to the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}

func countIndexes(m map[string][]int) int {
	n := 0
	for _, idx := range m {
		n += len(idx)
	}
	return n
}
