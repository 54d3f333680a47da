package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/memory"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func newTestVectorStore(vectors map[string][]float32) (*VectorStore, *memory.Repository, *mockEmbeddingService) {
	repo := memory.NewRepository()
	embedder := newMockEmbedder(vectors)
	return NewVectorStore(repo, embedder), repo, embedder
}

func TestVectorStore_AddDocuments_NormalisesAndAppends(t *testing.T) {
	vs, repo, embedder := newTestVectorStore(map[string][]float32{
		"alpha": {3, 4},
		"zero":  {0, 0},
	})
	ctx := context.Background()

	require.NoError(t, vs.AddDocuments(ctx, []string{"alpha", "zero"}))
	assert.Equal(t, 1, embedder.batchCalls)

	store, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.Equal(t, "alpha", store.Docs[0].Text)
	assert.InDelta(t, 0.6, store.Docs[0].Vector[0], 1e-6)
	assert.InDelta(t, 0.8, store.Docs[0].Vector[1], 1e-6)
	assert.InDelta(t, 1.0, domain.Norm(store.Docs[0].Vector), 1e-6)
	assert.Equal(t, []float32{0, 0}, store.Docs[1].Vector)
}

func TestVectorStore_AddDocuments_AppendsAcrossCalls(t *testing.T) {
	vs, repo, _ := newTestVectorStore(nil)
	ctx := context.Background()

	require.NoError(t, vs.AddDocuments(ctx, []string{"one"}))
	require.NoError(t, vs.AddDocuments(ctx, []string{"two", "three"}))

	store, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())
	assert.Equal(t, "three", store.Docs[2].Text)
	assert.Equal(t, 2, repo.Saves())
}

func TestVectorStore_AddDocuments_Empty(t *testing.T) {
	vs, repo, embedder := newTestVectorStore(nil)

	require.NoError(t, vs.AddDocuments(context.Background(), nil))
	assert.Zero(t, embedder.batchCalls)
	assert.Zero(t, repo.Saves())
}

func TestVectorStore_AddMissing(t *testing.T) {
	vs, repo, embedder := newTestVectorStore(nil)
	ctx := context.Background()

	added, err := vs.AddMissing(ctx, []string{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, added)

	added, err = vs.AddMissing(ctx, []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, added)

	added, err = vs.AddMissing(ctx, []string{"c", "a"})
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 2, embedder.batchCalls)
	assert.Equal(t, 2, repo.Saves())

	// AddDocuments itself stays append-only.
	require.NoError(t, vs.AddDocuments(ctx, []string{"a"}))
	n, err := vs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestVectorStore_AddDocuments_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("embedder failure is propagated and nothing saved", func(t *testing.T) {
		vs, repo, embedder := newTestVectorStore(nil)
		embedder.embedErr = errors.New("provider down")

		err := vs.AddDocuments(ctx, []string{"a"})
		assert.ErrorContains(t, err, "provider down")
		assert.Zero(t, repo.Saves())
	})

	t.Run("short batch", func(t *testing.T) {
		vs, repo, embedder := newTestVectorStore(nil)
		embedder.shortBatch = true

		assert.Error(t, vs.AddDocuments(ctx, []string{"a", "b"}))
		assert.Zero(t, repo.Saves())
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		vs, repo, _ := newTestVectorStore(map[string][]float32{"wide": {1, 0, 0}})
		require.NoError(t, vs.AddDocuments(ctx, []string{"narrow"}))

		err := vs.AddDocuments(ctx, []string{"wide"})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.Equal(t, 1, repo.Saves())
	})

	t.Run("empty vector leaves the store readable", func(t *testing.T) {
		vs, repo, _ := newTestVectorStore(map[string][]float32{"a": {}, "b": {1, 0}})

		err := vs.AddDocuments(ctx, []string{"a", "b"})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.Zero(t, repo.Saves())

		require.NoError(t, vs.AddDocuments(ctx, []string{"b"}))
		n, err := vs.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("non-finite component", func(t *testing.T) {
		vs, repo, _ := newTestVectorStore(map[string][]float32{"a": {float32(math.NaN()), 1}})

		assert.ErrorIs(t, vs.AddDocuments(ctx, []string{"a"}), domain.ErrInvalidInput)
		assert.Zero(t, repo.Saves())
	})

	t.Run("corrupt store", func(t *testing.T) {
		repo := &failingRepository{StoreRepository: memory.NewRepository(), loadErr: domain.ErrStoreCorrupt}
		vs := NewVectorStore(repo, newMockEmbedder(nil))

		assert.ErrorIs(t, vs.AddDocuments(ctx, []string{"a"}), domain.ErrStoreCorrupt)
	})

	t.Run("save failure", func(t *testing.T) {
		repo := &failingRepository{StoreRepository: memory.NewRepository(), saveErr: errors.New("disk full")}
		vs := NewVectorStore(repo, newMockEmbedder(nil))

		assert.ErrorContains(t, vs.AddDocuments(ctx, []string{"a"}), "disk full")
	})
}

func TestVectorStore_Search(t *testing.T) {
	vs, _, _ := newTestVectorStore(map[string][]float32{
		"A":     {1, 0},
		"B":     {0, 1},
		"C":     {0.7071, 0.7071},
		"query": {5, 0},
	})
	ctx := context.Background()
	require.NoError(t, vs.AddDocuments(ctx, []string{"A", "B", "C"}))

	texts, err := vs.Search(ctx, "query", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, texts)

	scored, err := vs.SearchScored(ctx, "query", 3)
	require.NoError(t, err)
	require.Len(t, scored, 3)
	assert.Equal(t, "B", scored[2].Text)
	assert.InDelta(t, 0.0, scored[2].Score, 1e-9)
}

func TestVectorStore_Search_EmptyStoreSkipsEmbedding(t *testing.T) {
	vs, _, embedder := newTestVectorStore(nil)

	for _, k := range []int{0, 1, 5} {
		texts, err := vs.Search(context.Background(), "anything", k)
		require.NoError(t, err)
		assert.NotNil(t, texts)
		assert.Empty(t, texts)
	}
	assert.Zero(t, embedder.embedCalls)
}

func TestVectorStore_Search_ZeroK(t *testing.T) {
	vs, _, embedder := newTestVectorStore(nil)
	require.NoError(t, vs.AddDocuments(context.Background(), []string{"a"}))

	texts, err := vs.Search(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Empty(t, texts)
	assert.Zero(t, embedder.embedCalls)
}

func TestVectorStore_Search_QueryDimensionMismatch(t *testing.T) {
	vs, _, _ := newTestVectorStore(map[string][]float32{"wide": {1, 0, 0}})
	require.NoError(t, vs.AddDocuments(context.Background(), []string{"doc"}))

	_, err := vs.Search(context.Background(), "wide", 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorStore_Search_ZeroQueryVector(t *testing.T) {
	vs, _, _ := newTestVectorStore(map[string][]float32{"zero": {0, 0}, "doc": {1, 0}})
	require.NoError(t, vs.AddDocuments(context.Background(), []string{"doc"}))

	results, err := vs.SearchScored(context.Background(), "zero", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, math.IsNaN(results[0].Score))
	assert.Equal(t, 0.0, results[0].Score)
}

func TestVectorStore_Search_EmbedderError(t *testing.T) {
	vs, _, embedder := newTestVectorStore(nil)
	require.NoError(t, vs.AddDocuments(context.Background(), []string{"doc"}))
	embedder.embedErr = errors.New("timeout")

	_, err := vs.Search(context.Background(), "q", 1)
	assert.ErrorContains(t, err, "timeout")
}

func TestVectorStore_StatsAndCount(t *testing.T) {
	vs, _, _ := newTestVectorStore(nil)
	ctx := context.Background()

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", stats.Location)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Dimension)

	require.NoError(t, vs.AddDocuments(ctx, []string{"a", "b"}))

	count, err := vs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stats, err = vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Dimension)
}

func TestVectorStore_ConcurrentAddAndSearch(t *testing.T) {
	vs, _, _ := newTestVectorStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, vs.AddDocuments(ctx, []string{"doc"}))
		}()
		go func() {
			defer wg.Done()
			_, err := vs.Search(ctx, "doc", 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := vs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
