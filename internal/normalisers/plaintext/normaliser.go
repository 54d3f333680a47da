// Package plaintext provides the fallback normaliser for text notes.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and anything without a specific normaliser.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns nil: this is the fallback normaliser.
func (n *Normaliser) SupportedExtensions() []string {
	return nil
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise unifies line endings, drops a UTF-8 byte order mark and
// derives a title from the URL when none is set.
func (n *Normaliser) Normalise(_ context.Context, doc *domain.Document) (*driven.NormaliseResult, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	out := *doc
	content := strings.TrimPrefix(doc.Content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	out.Content = strings.ReplaceAll(content, "\r", "\n")

	if out.Title == "" {
		out.Title = extractTitle(doc.URL)
	}

	return &driven.NormaliseResult{Document: out}, nil
}

// extractTitle extracts a human-readable title from a URL.
func extractTitle(url string) string {
	if url == "" {
		return ""
	}
	filename := filepath.Base(url)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
