// Package file persists the vector store as a single JSON document.
//
// The layout is
//
//	{"version":1,"dimension":N,"docs":[{"text":"...","vector":[...]}]}
//
// Files written before versioning carry only the "docs" key and are read
// as version 0. Writes go to a sibling temp file which is then renamed over
// the target, so a crash mid-write leaves the previous store intact.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// DefaultFileName is the store file name used when no path is configured.
const DefaultFileName = "local_vectors.json"

// Ensure Repository implements the interface.
var _ driven.StoreRepository = (*Repository)(nil)

// Repository reads and writes the store file at a fixed path.
type Repository struct {
	path string
}

type payload struct {
	Version   int           `json:"version,omitempty"`
	Dimension int           `json:"dimension,omitempty"`
	Docs      *[]payloadDoc `json:"docs"`
}

type payloadDoc struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// NewRepository returns a repository for path. The parent directory is
// created if needed.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty: %w", domain.ErrInvalidInput)
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Repository{path: path}, nil
}

// Load reads the store file. A missing file yields an empty store.
func (r *Repository) Load(ctx context.Context) (*domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("store file %s not found, starting empty", r.path)
		return domain.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store %s: %w", r.path, err)
	}

	return decode(data, r.path)
}

func decode(data []byte, path string) (*domain.Store, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding %s: %v: %w", path, err, domain.ErrStoreCorrupt)
	}
	if p.Docs == nil {
		return nil, fmt.Errorf("decoding %s: missing docs: %w", path, domain.ErrStoreCorrupt)
	}
	if p.Version < 0 || p.Version > domain.StoreFormatVersion {
		return nil, fmt.Errorf("decoding %s: unknown version %d: %w", path, p.Version, domain.ErrStoreCorrupt)
	}

	store := &domain.Store{
		Dimension: p.Dimension,
		Docs:      make([]domain.StoreDocument, len(*p.Docs)),
	}
	for i, d := range *p.Docs {
		store.Docs[i] = domain.StoreDocument{Text: d.Text, Vector: d.Vector}
	}
	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("decoding %s: %v: %w", path, err, domain.ErrStoreCorrupt)
	}

	logger.Debug("loaded %d docs (version %d, dimension %d) from %s",
		store.Len(), p.Version, store.Dimension, path)
	return store, nil
}

// Save writes s to a temp file and renames it over the store file.
func (r *Repository) Save(ctx context.Context, s *domain.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		s = domain.NewStore()
	}

	docs := make([]payloadDoc, len(s.Docs))
	for i, d := range s.Docs {
		vec := d.Vector
		if vec == nil {
			vec = []float32{}
		}
		docs[i] = payloadDoc{Text: d.Text, Vector: vec}
	}
	data, err := json.Marshal(payload{
		Version:   domain.StoreFormatVersion,
		Dimension: s.Dimension,
		Docs:      &docs,
	})
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing store: %w", err)
	}

	logger.Debug("saved %d docs to %s", len(docs), r.path)
	return nil
}

// Location returns the store file path.
func (r *Repository) Location() string {
	return r.path
}

// Close is a no-op; the file is not held open between calls.
func (r *Repository) Close() error {
	return nil
}
