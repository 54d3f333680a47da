package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

// mockEmbeddingService returns fixed vectors per text.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	embedErr   error
	batchCalls int
	embedCalls int
	shortBatch bool
}

func newMockEmbedder(vectors map[string][]float32) *mockEmbeddingService {
	return &mockEmbeddingService{vectors: vectors, fallback: []float32{1, 1}}
}

func (m *mockEmbeddingService) vectorFor(text string) ([]float32, error) {
	if v, ok := m.vectors[text]; ok {
		return domain.CloneVector(v), nil
	}
	if m.fallback == nil {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return domain.CloneVector(m.fallback), nil
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text)
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.vectorFor(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if m.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return 2 }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// mockLLMService records the last prompt it was given.
type mockLLMService struct {
	response string
	err      error
	prompt   string
	opts     driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt = prompt
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string          { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error               { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPrompts() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer:       "Context:\n%s\n\nQuestion: %s",
		driven.PromptAnswerSystem: "be brief",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// failingRepository wraps a repository and injects errors.
type failingRepository struct {
	driven.StoreRepository
	loadErr error
	saveErr error
}

func (f *failingRepository) Load(ctx context.Context) (*domain.Store, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.StoreRepository.Load(ctx)
}

func (f *failingRepository) Save(ctx context.Context, s *domain.Store) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.StoreRepository.Save(ctx, s)
}

// mockAIConfigValidator returns fixed errors.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}
