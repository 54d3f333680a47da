package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

//go:embed prompts
var builtinPrompts embed.FS

var _ driven.PromptStore = (*PromptStore)(nil)

// placeholders is the number of %s verbs each prompt must carry.
var placeholders = map[string]int{
	driven.PromptAnswer:       2,
	driven.PromptAnswerSystem: 0,
}

// PromptStore serves prompt templates from <dir>/<name>.txt.
//
// The first Load seeds the directory with the built-in templates and a
// README, never overwriting existing files. Missing or unusable files fall
// back to the built-in template.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore returns a store rooted at promptDir, or ~/.grimoire/prompts
// when promptDir is empty. It does no I/O.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}
	return &PromptStore{dir: promptDir, cache: make(map[string]string)}, nil
}

// BuiltinPromptStore serves the embedded templates and never touches disk.
func BuiltinPromptStore() *PromptStore {
	return &PromptStore{cache: make(map[string]string)}
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named template. Unknown names wrap domain.ErrNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	want, known := placeholders[name]
	if !known {
		return "", fmt.Errorf("load prompt %q: %w", name, domain.ErrNotFound)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt := builtin(name)
	if s.dir != "" {
		s.seedOnce.Do(s.seed)
		if s.seedErr != nil {
			logger.Warn("prompts: %v", s.seedErr)
		}
		if custom, err := s.read(name, want); err == nil {
			prompt = custom
		} else {
			logger.Debug("prompts: using built-in %s: %v", name, err)
		}
	}

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		prompt = existing
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) read(name string, want int) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(raw))
	if got := domain.TemplateSlots(prompt); got != want {
		logger.Warn("prompts: %s.txt has %d %%s placeholders, want %d; using the built-in template", name, got, want)
		return "", fmt.Errorf("%s.txt: %d placeholders: %w", name, got, domain.ErrInvalidInput)
	}
	return prompt, nil
}

// seed copies the built-in files into the prompt directory.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("creating %s: %w", s.dir, err)
		return
	}

	entries, err := builtinPrompts.ReadDir("prompts")
	if err != nil {
		s.seedErr = err
		return
	}
	for _, e := range entries {
		target := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		content, err := builtinPrompts.ReadFile(path.Join("prompts", e.Name()))
		if err != nil {
			s.seedErr = err
			return
		}
		if err := os.WriteFile(target, content, 0o600); err != nil {
			s.seedErr = fmt.Errorf("writing %s: %w", e.Name(), err)
			return
		}
	}
}

func builtin(name string) string {
	content, err := builtinPrompts.ReadFile(path.Join("prompts", name+".txt"))
	if err != nil {
		// Every name in placeholders ships a file.
		panic(fmt.Sprintf("missing built-in prompt %s: %v", name, err))
	}
	return strings.TrimSpace(string(content))
}
