package driving

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// IndexService adds content to the vector store.
type IndexService interface {
	// IndexDocument chunks doc, embeds the chunks and appends them.
	// Returns the chunks that were stored; chunks whose text is already in
	// the store are skipped.
	IndexDocument(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)

	// IndexTexts embeds and appends non-blank texts as-is, without
	// chunking, and returns the number of records added.
	IndexTexts(ctx context.Context, texts []string) (int, error)

	// Stats reports on the current store.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
