package driving

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search ranks stored chunks against the query by cosine similarity.
	// Results are best first; equal scores keep insertion order.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

// AskService answers questions using retrieved context.
type AskService interface {
	// Ask retrieves context for question and asks the LLM to answer it.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
