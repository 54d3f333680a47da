package memory

import (
	"maps"
	"sync"

	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Save and Load are no-ops.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns a store seeded with a copy of initial, which may be nil.
func NewConfigStore(initial ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	for _, m := range initial {
		maps.Copy(s.values, m)
	}
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Save() error { return nil }
func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:", matching the memory store repository.
func (s *ConfigStore) Path() string { return ":memory:" }
