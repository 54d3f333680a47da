package memory

import (
	"context"
	"sync"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// Ensure Repository implements the interface.
var _ driven.StoreRepository = (*Repository)(nil)

// Repository keeps the vector store in process memory. Load and Save copy
// the store so callers never share slices with the repository.
type Repository struct {
	mu    sync.RWMutex
	store *domain.Store
	saves int
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{store: domain.NewStore()}
}

// Load returns a copy of the held store.
func (r *Repository) Load(ctx context.Context) (*domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Clone(), nil
}

// Save replaces the held store with a copy of s.
func (r *Repository) Save(ctx context.Context, s *domain.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		s = domain.NewStore()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = s.Clone()
	r.saves++
	return nil
}

// Saves returns how many times Save has succeeded.
func (r *Repository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// Location returns ":memory:".
func (r *Repository) Location() string {
	return ":memory:"
}

// Close is a no-op.
func (r *Repository) Close() error {
	return nil
}
