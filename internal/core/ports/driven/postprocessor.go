package driven

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// PostProcessor is one stage of chunk production. The first stage gets nil
// chunks and builds them from doc; later stages rewrite what they are given.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs its stages in order and returns the last
// stage's chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
