package mcp

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	chunks []domain.Chunk
	stats  *domain.StoreStats
	err    error

	docs []domain.Document
}

func (m *mockIndexService) IndexDocument(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if doc.ID == "" {
		doc.ID = "doc-generated"
	}
	m.docs = append(m.docs, *doc)
	return m.chunks, nil
}

func (m *mockIndexService) IndexTexts(_ context.Context, texts []string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(texts), nil
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.StoreStats, error) {
	return m.stats, m.err
}
