// Package openai provides an embedding service adapter for the OpenAI API
// and servers that speak the same protocol.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/httpjson"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	// MaxBatch is the most inputs sent in one request.
	MaxBatch = 2048
)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is required.
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions shortens text-embedding-3-* output. Zero uses the model size.
	Dimensions int
}

// EmbeddingService calls POST /embeddings.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
	shorten    bool
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService fails without an API key.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}

	header := http.Header{"Authorization": {"Bearer " + cfg.APIKey}}
	return &EmbeddingService{
		api:        httpjson.New("openai", cfg.BaseURL, cfg.Timeout, header),
		model:      cfg.Model,
		dimensions: dimensions,
		shorten:    cfg.Dimensions > 0,
	}, nil
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch sends texts MaxBatch at a time and returns vectors in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatch {
		batch, err := s.embed(ctx, texts[start:min(start+MaxBatch, len(texts))])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{Model: s.model, Input: texts}
	if s.shorten {
		req.Dimensions = s.dimensions
	}

	var resp embeddingResponse
	if err := s.api.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	// The API does not promise to keep input order; place by index.
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}
	for i, e := range embeddings {
		if e == nil {
			return nil, fmt.Errorf("openai: no embedding returned for input %d", i)
		}
	}
	return embeddings, nil
}

func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models")
}

func (s *EmbeddingService) Close() error {
	return nil
}
