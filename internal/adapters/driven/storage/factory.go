// Package storage selects the vector store repository for the configured backend.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/file"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/memory"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/sqlite"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// ResolvePath returns the store location for settings. Relative paths are
// taken relative to configDir; an empty path uses the backend default.
func ResolvePath(settings domain.StoreSettings, configDir string) string {
	path := settings.Path
	if path == "" {
		path = settings.Backend.DefaultStorePath()
	}
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}

// NewRepository opens the repository for the configured backend.
func NewRepository(settings domain.StoreSettings, configDir string) (driven.StoreRepository, error) {
	switch settings.Backend {
	case domain.StoreBackendFile:
		return file.NewRepository(ResolvePath(settings, configDir))
	case domain.StoreBackendSQLite:
		return sqlite.NewRepository(ResolvePath(settings, configDir))
	case domain.StoreBackendMemory:
		return memory.NewRepository(), nil
	default:
		return nil, fmt.Errorf("store backend %q: %w", settings.Backend, domain.ErrUnsupportedType)
	}
}
