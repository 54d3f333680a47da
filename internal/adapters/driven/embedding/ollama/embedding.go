// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/httpjson"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the expected vector size. Zero means the known size for
	// Model, or whatever the first response carries.
	Dimensions int
}

// EmbeddingService calls Ollama's /api/embed, which takes a batch of inputs
// per request.
type EmbeddingService struct {
	api   *httpjson.Client
	model string

	mu         sync.RWMutex
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbeddingService fills unset config fields with the defaults.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}

	return &EmbeddingService{
		api:        httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: received %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	s.mu.Lock()
	if s.dimensions == 0 {
		s.dimensions = len(resp.Embeddings[0])
	}
	s.mu.Unlock()

	return resp.Embeddings, nil
}

// Dimensions is 0 before the first call for models of unknown size.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists local models, which needs no inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

func (s *EmbeddingService) Close() error {
	return nil
}
