package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/memory"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func newSeededSearchService(t *testing.T, defaultLimit int) (*SearchService, *mockEmbeddingService) {
	t.Helper()
	embedder := newMockEmbedder(map[string][]float32{
		"cats":    {1, 0},
		"dogs":    {0, 1},
		"pets":    {0.7071, 0.7071},
		"kittens": {0.9, 0.1},
		"q":       {1, 0},
	})
	vs := NewVectorStore(memory.NewRepository(), embedder)
	require.NoError(t, vs.AddDocuments(context.Background(), []string{"cats", "dogs", "pets", "kittens"}))
	return NewSearchService(vs, defaultLimit), embedder
}

func TestSearchService_Search(t *testing.T) {
	svc, _ := newSeededSearchService(t, 3)

	results, err := svc.Search(context.Background(), "  q  ", domain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cats", results[0].Text)
	assert.Equal(t, "kittens", results[1].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchService_DefaultLimit(t *testing.T) {
	svc, _ := newSeededSearchService(t, 3)

	results, err := svc.Search(context.Background(), "q", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 3)

	fallback := NewSearchService(NewVectorStore(memory.NewRepository(), newMockEmbedder(nil)), 0)
	assert.Equal(t, domain.DefaultTopK, fallback.defaultLimit)
}

func TestSearchService_EmptyQuery(t *testing.T) {
	svc, embedder := newSeededSearchService(t, 3)

	for _, q := range []string{"", "   ", "\n\t"} {
		results, err := svc.Search(context.Background(), q, domain.SearchOptions{})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Zero(t, embedder.embedCalls)
}

func TestSearchService_EmptyStore(t *testing.T) {
	svc := NewSearchService(NewVectorStore(memory.NewRepository(), newMockEmbedder(nil)), 3)

	results, err := svc.Search(context.Background(), "anything", domain.SearchOptions{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}
