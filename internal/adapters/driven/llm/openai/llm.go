// Package openai provides an LLM service adapter for OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/httpjson"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is required.
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls POST /chat/completions.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	header := http.Header{"Authorization": {"Bearer " + cfg.APIKey}}
	return &LLMService{
		api:   httpjson.New("openai", cfg.BaseURL, cfg.Timeout, header),
		model: cfg.Model,
	}, nil
}

// Generate sends prompt as the user turn, after opts.System when set.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var resp chatResponse
	err := s.api.Post(ctx, "/chat/completions", chatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.StopWords,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models to check the key.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models")
}

func (s *LLMService) Close() error {
	return nil
}
