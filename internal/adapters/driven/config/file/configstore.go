package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// ConfigFileName is the name of the configuration file inside the config directory.
const ConfigFileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps config.toml as a flat map of dotted keys.
// [embedding] model = "x" is read as "embedding.model" and written back as a table.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// DefaultConfigDir returns ~/.grimoire.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".grimoire"), nil
}

// NewConfigStore opens configDir/config.toml, creating the directory when
// needed. An empty configDir means DefaultConfigDir. A file that does not
// parse is an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{filePath: filepath.Join(configDir, ConfigFileName)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw decoded value. TOML integers arrive as int64.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Set stores value under key and writes the file. On a write failure the
// previous value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return fmt.Errorf("invalid config key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[key]
	s.data[key] = value
	if err := s.write(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Save writes the current configuration.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// Load replaces the in-memory values with the file contents.
// A missing file leaves the store empty.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.data = make(map[string]any)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	s.mu.Lock()
	s.data = flattenMap(tables, "")
	s.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// write encodes the tables and replaces the file. Caller holds the lock.
func (s *ConfigStore) write() error {
	tables, err := nestMap(s.data)
	if err != nil {
		return err
	}
	encoded, err := toml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp) //nolint:errcheck // best effort
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// flattenMap turns {"a": {"b": 1}} into {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		table, ok := value.(map[string]any)
		if !ok {
			out[key] = value
			continue
		}
		for k, v := range flattenMap(table, key) {
			out[k] = v
		}
	}
	return out
}

// nestMap is the inverse of flattenMap. A key that is both a value and a
// table prefix ("a" and "a.b") cannot be represented and is an error.
func nestMap(flat map[string]any) (map[string]any, error) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			table, ok := child.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("config key %q conflicts with value at %q", key, part)
			}
			node = table
		}
		leaf := parts[len(parts)-1]
		if _, isTable := node[leaf].(map[string]any); isTable {
			return nil, fmt.Errorf("config key %q conflicts with table of the same name", key)
		}
		node[leaf] = flat[key]
	}
	return root, nil
}
