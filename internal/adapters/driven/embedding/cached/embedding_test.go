package cached

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/cache/memory"
)

// countingEmbedder returns a vector derived from the text length and
// records every text it was asked to embed.
type countingEmbedder struct {
	calls [][]string
	err   error
	short bool
}

func (e *countingEmbedder) vector(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls = append(e.calls, []string{text})
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, append([]string(nil), texts...))
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	if e.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (e *countingEmbedder) Dimensions() int              { return 2 }
func (e *countingEmbedder) ModelName() string            { return "counting" }
func (e *countingEmbedder) Ping(_ context.Context) error { return nil }
func (e *countingEmbedder) Close() error                 { return nil }

func TestEmbed_CachesResult(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, memory.New())
	ctx := context.Background()

	v1, err := s.Embed(ctx, "hello")
	require.NoError(t, err)
	v2, err := s.Embed(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, inner.calls, 1)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestEmbed_ErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("provider down")}
	s := New(inner, memory.New())

	_, err := s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestEmbedBatch_OnlyMissesReachProvider(t *testing.T) {
	inner := &countingEmbedder{}
	c := memory.New()
	c.Set("cached", []float32{9, 9})
	s := New(inner, c)

	vectors, err := s.EmbedBatch(context.Background(), []string{"a", "cached", "bb", "a"})
	require.NoError(t, err)

	require.Len(t, inner.calls, 1)
	assert.Equal(t, []string{"a", "bb"}, inner.calls[0])
	assert.Equal(t, [][]float32{{1, 1}, {9, 9}, {2, 1}, {1, 1}}, vectors)

	// Duplicate misses must not share backing arrays.
	vectors[0][0] = 100
	assert.Equal(t, float32(1), vectors[3][0])

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.Equal(t, 3, stats.Entries)
}

func TestEmbedBatch_AllCached(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, memory.New())
	ctx := context.Background()

	_, err := s.EmbedBatch(ctx, []string{"x", "y"})
	require.NoError(t, err)
	_, err = s.EmbedBatch(ctx, []string{"y", "x"})
	require.NoError(t, err)

	assert.Len(t, inner.calls, 1)
	assert.InDelta(t, 0.5, s.Stats().HitRate(), 1e-9)
}

func TestEmbedBatch_ShortResponse(t *testing.T) {
	s := New(&countingEmbedder{short: true}, memory.New())

	_, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "received 1 embeddings for 2 texts"))
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestClearCache(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, memory.New())
	_, _ = s.Embed(context.Background(), "a")

	s.ClearCache()
	assert.Equal(t, Stats{}, s.Stats())

	_, _ = s.Embed(context.Background(), "a")
	assert.Len(t, inner.calls, 2)
}

func TestDelegates(t *testing.T) {
	s := New(&countingEmbedder{}, memory.New())
	assert.Equal(t, 2, s.Dimensions())
	assert.Equal(t, "counting", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
	assert.Zero(t, Stats{}.HitRate())
}
