package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// VectorStore is the flat, append-only store of normalised chunk vectors.
//
// Every operation loads the whole store from the repository, and every
// mutation writes it back in full. The mutex serialises writers within one
// process; separate processes sharing a repository follow last-writer-wins.
type VectorStore struct {
	mu       sync.RWMutex
	repo     driven.StoreRepository
	embedder driven.EmbeddingService
}

// NewVectorStore creates a store persisted through repo and embedding with embedder.
func NewVectorStore(repo driven.StoreRepository, embedder driven.EmbeddingService) *VectorStore {
	return &VectorStore{
		repo:     repo,
		embedder: embedder,
	}
}

// AddDocuments embeds texts in one batch, normalises each vector and appends
// the records in input order. Nothing is saved if any step fails.
func (v *VectorStore) AddDocuments(ctx context.Context, texts []string) error {
	_, err := v.add(ctx, texts, false)
	return err
}

// AddMissing is AddDocuments for texts not already stored. A text matching
// an existing record exactly, or an earlier text in the batch, is skipped.
// It returns the positions in texts that were appended.
func (v *VectorStore) AddMissing(ctx context.Context, texts []string) ([]int, error) {
	return v.add(ctx, texts, true)
}

func (v *VectorStore) add(ctx context.Context, texts []string, skipKnown bool) ([]int, error) {
	if len(texts) == 0 {
		return []int{}, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	start := time.Now()
	store, err := v.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}

	picked := make([]int, 0, len(texts))
	if skipKnown {
		known := make(map[string]struct{}, store.Len()+len(texts))
		for _, d := range store.Docs {
			known[d.Text] = struct{}{}
		}
		for i, t := range texts {
			if _, dup := known[t]; !dup {
				known[t] = struct{}{}
				picked = append(picked, i)
			}
		}
		if skipped := len(texts) - len(picked); skipped > 0 {
			logger.Debug("Skipped %d texts already in the store", skipped)
		}
		if len(picked) == 0 {
			return picked, nil
		}
	} else {
		for i := range texts {
			picked = append(picked, i)
		}
	}

	batch := make([]string, len(picked))
	for n, i := range picked {
		batch[n] = texts[i]
	}

	vectors, err := v.embedder.EmbedBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(batch), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
	}

	normalised := make([][]float32, len(vectors))
	for i, vec := range vectors {
		normalised[i] = domain.Normalize(vec)
	}
	if err := store.CheckBatch(normalised); err != nil {
		return nil, fmt.Errorf("embedder output: %w", err)
	}
	for i, text := range batch {
		if err := store.Append(text, normalised[i]); err != nil {
			return nil, fmt.Errorf("appending text %d: %w", i, err)
		}
	}

	if err := v.repo.Save(ctx, store); err != nil {
		return nil, fmt.Errorf("saving store: %w", err)
	}

	logger.Info("Added %d docs, store holds %d", len(batch), store.Len())
	logger.Elapsed("add documents", start)
	return picked, nil
}

// SearchScored returns the k best records for query with their scores.
// An empty store or k <= 0 returns an empty result without calling the embedder.
func (v *VectorStore) SearchScored(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return []domain.SearchResult{}, nil
	}

	v.mu.RLock()
	store, err := v.repo.Load(ctx)
	v.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	if store.Len() == 0 {
		logger.Debug("Store is empty, nothing to rank")
		return []domain.SearchResult{}, nil
	}

	vec, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	q := domain.Normalize(vec)
	if err := store.CheckDimension(len(q)); err != nil {
		return nil, fmt.Errorf("query vector: %w", err)
	}

	results := Rank(store, q, k)
	logger.Debug("Ranked %d records, returning %d", store.Len(), len(results))
	return results, nil
}

// Search returns the texts of the k best records for query, best first.
func (v *VectorStore) Search(ctx context.Context, query string, k int) ([]string, error) {
	results, err := v.SearchScored(ctx, query, k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts, nil
}

// Count returns the number of stored records.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	stats, err := v.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Documents, nil
}

// Stats summarises the persisted store.
func (v *VectorStore) Stats(ctx context.Context) (*domain.StoreStats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	store, err := v.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return &domain.StoreStats{
		Location:  v.repo.Location(),
		Documents: store.Len(),
		Dimension: store.Dimension,
	}, nil
}
