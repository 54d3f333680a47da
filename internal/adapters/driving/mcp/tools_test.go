package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{Text: "cats purr", Score: 0.95, Position: 2},
				{Text: "dogs bark", Score: 0.5, Position: 0},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch}, "")
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "cats", Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "cats purr", output.Results[0].Text)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, 2, output.Results[0].Position)
		assert.Equal(t, "cats", mockSearch.lastQuery)
		assert.Equal(t, 2, mockSearch.lastOpts.Limit)
	})

	t.Run("zero limit defers to the service default", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch}, "")
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Results)
		assert.Equal(t, 0, mockSearch.lastOpts.Limit)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch}, "")
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes text as a document", func(t *testing.T) {
		index := &mockIndexService{chunks: make([]domain.Chunk, 3)}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Index: index}, "")
		require.NoError(t, err)

		input := IndexInput{Text: "Some note.", URL: "notes/a.md", Title: "A"}
		_, output, err := server.handleIndex(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 3, output.Chunks)
		assert.Equal(t, "doc-generated", output.DocumentID)
		require.Len(t, index.docs, 1)
		assert.Equal(t, "Some note.", index.docs[0].Content)
		assert.Equal(t, "notes/a.md", index.docs[0].URL)
		assert.Equal(t, "A", index.docs[0].Title)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		index := &mockIndexService{}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Index: index}, "")
		require.NoError(t, err)

		_, _, err = server.handleIndex(ctx, nil, IndexInput{Text: "  \n"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, index.docs)
	})

	t.Run("missing index service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}}, "")
		require.NoError(t, err)

		_, _, err = server.handleIndex(ctx, nil, IndexInput{Text: "note"})

		assert.ErrorIs(t, err, ErrIndexingDisabled)
	})

	t.Run("propagates index errors", func(t *testing.T) {
		index := &mockIndexService{err: domain.ErrEmbeddingUnavailable}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Index: index}, "")
		require.NoError(t, err)

		_, _, err = server.handleIndex(ctx, nil, IndexInput{Text: "note"})

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}
