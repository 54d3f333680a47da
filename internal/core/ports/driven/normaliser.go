package driven

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// Normaliser turns a document's raw content into plain prose before
// sentence splitting. Each normaliser handles specific file extensions
// (e.g. Markdown).
type Normaliser interface {
	// SupportedExtensions returns the lower-case extensions handled,
	// including the dot. An empty slice marks a fallback normaliser.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise returns a copy of doc with cleaned Content and, when
	// doc.Title is empty, a derived Title. ID and URL are preserved.
	Normalise(ctx context.Context, doc *domain.Document) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document.
	Document domain.Document
}

// NormaliserRegistry selects the appropriate normaliser for a document
// based on the extension of its URL.
type NormaliserRegistry interface {
	// Normalise transforms doc using the best matching normaliser.
	// Documents nothing matches are returned unchanged.
	Normalise(ctx context.Context, doc *domain.Document) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions with a specific normaliser.
	SupportedExtensions() []string
}
