package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService chunks documents and appends the chunks to the vector store.
type IndexService struct {
	store       *VectorStore
	pipeline    driven.PostProcessorPipeline
	normalisers driven.NormaliserRegistry
	now         func() time.Time
}

// NewIndexService creates a new index service.
func NewIndexService(store *VectorStore, pipeline driven.PostProcessorPipeline) *IndexService {
	return &IndexService{
		store:    store,
		pipeline: pipeline,
		now:      time.Now,
	}
}

// SetNormalisers sets the registry used to clean content before chunking.
// Without one, content is chunked as given.
func (s *IndexService) SetNormalisers(registry driven.NormaliserRegistry) {
	s.normalisers = registry
}

// DocumentID returns the stable identifier for a document at url.
// The same url always maps to the same id.
func DocumentID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// IndexDocument runs doc through the pipeline and stores the resulting chunks.
// Chunks whose text is already stored are skipped, so indexing an edited
// note again only adds what changed. The returned chunks are the ones
// stored. A document with no sentences leaves the store untouched.
func (s *IndexService) IndexDocument(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil: %w", domain.ErrInvalidInput)
	}

	logger.Section("Indexing")
	if doc.ID == "" {
		if doc.URL != "" {
			doc.ID = DocumentID(doc.URL)
		} else {
			doc.ID = uuid.NewString()
		}
	}
	doc.IndexedAt = s.now()

	if s.normalisers != nil {
		result, err := s.normalisers.Normalise(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("normalising %s: %w", doc.ID, err)
		}
		*doc = result.Document
	}
	logger.Debug("Document %s (%s), %d bytes", doc.ID, doc.URL, len(doc.Content))

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", doc.ID, err)
	}
	logger.Info("Built %d chunks for %s", len(chunks), displayName(doc))
	if len(chunks) == 0 {
		return []domain.Chunk{}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	added, err := s.store.AddMissing(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", doc.ID, err)
	}

	stored := make([]domain.Chunk, len(added))
	for n, i := range added {
		stored[n] = chunks[i]
	}
	if len(stored) < len(chunks) {
		logger.Info("%d of %d chunks already stored", len(chunks)-len(stored), len(chunks))
	}
	return stored, nil
}

// IndexTexts stores each non-blank text as its own record, without chunking,
// and returns how many records were added.
func (s *IndexService) IndexTexts(ctx context.Context, texts []string) (int, error) {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		kept = append(kept, t)
	}
	if skipped := len(texts) - len(kept); skipped > 0 {
		logger.Debug("Skipped %d blank texts", skipped)
	}
	if err := s.store.AddDocuments(ctx, kept); err != nil {
		return 0, err
	}
	return len(kept), nil
}

// Stats reports on the current store.
func (s *IndexService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

func displayName(doc *domain.Document) string {
	switch {
	case doc.Title != "":
		return doc.Title
	case doc.URL != "":
		return doc.URL
	default:
		return doc.ID
	}
}
