// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"context"
	"strings"
	"time"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/httpjson"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults. Local generation is slow, hence the long timeout.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model: cfg.Model,
	}
}

// Generate returns the trimmed completion. Model options are only sent
// when at least one is set, so the model's own defaults apply otherwise.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := generateRequest{Model: s.model, Prompt: prompt, System: opts.System}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	var resp generateResponse
	if err := s.api.Post(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Response), nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

func (s *LLMService) Close() error {
	return nil
}
