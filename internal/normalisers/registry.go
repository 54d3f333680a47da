package normalisers

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/normalisers/markdown"
	"github.com/grimoire-notes/grimoire/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to normalisers by URL extension.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry returns a registry holding the built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser. Normalisers are kept in priority order.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise runs doc through the highest priority matching normaliser.
func (r *Registry) Normalise(ctx context.Context, doc *domain.Document) (*driven.NormaliseResult, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	n := r.lookup(doc.URL)
	if n == nil {
		return &driven.NormaliseResult{Document: *doc}, nil
	}
	return n.Normalise(ctx, doc)
}

func (r *Registry) lookup(url string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(url))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		exts := n.SupportedExtensions()
		if len(exts) == 0 || slices.Contains(exts, ext) {
			return n
		}
	}
	return nil
}

// SupportedExtensions returns the sorted extensions with a specific normaliser.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, n := range r.normalisers {
		for _, ext := range n.SupportedExtensions() {
			if !slices.Contains(out, ext) {
				out = append(out, ext)
			}
		}
	}
	sort.Strings(out)
	return out
}
