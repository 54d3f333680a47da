package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks stored chunks against a query.
type SearchService struct {
	store        *VectorStore
	defaultLimit int
}

// NewSearchService creates a new search service. defaultLimit applies when a
// request does not set one; values <= 0 fall back to domain.DefaultTopK.
func NewSearchService(store *VectorStore, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultTopK
	}
	return &SearchService{
		store:        store,
		defaultLimit: defaultLimit,
	}
}

// Search ranks all stored chunks against query and returns the best matches.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	logger.Debug("Limit: %d", limit)

	results, err := s.store.SearchScored(ctx, query, limit)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}
