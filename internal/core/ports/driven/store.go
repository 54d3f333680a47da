package driven

import (
	"context"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// StoreRepository persists the vector store as a single unit.
//
// The store is loaded fully before any operation and written back fully
// after each mutation. A repository with nothing persisted yet returns an
// empty store, never an error. Undecodable data returns an error wrapping
// domain.ErrStoreCorrupt.
//
// Implementations are not required to be safe for multiple processes
// writing at once; the last writer wins.
type StoreRepository interface {
	// Load reads the whole store.
	Load(ctx context.Context) (*domain.Store, error)

	// Save replaces the persisted store with s.
	Save(ctx context.Context, s *domain.Store) error

	// Location describes where the store lives, for display.
	Location() string

	// Close releases resources.
	Close() error
}
