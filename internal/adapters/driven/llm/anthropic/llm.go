// Package anthropic provides an LLM service adapter for the Anthropic
// Messages API.
package anthropic

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
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is required.
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls POST /v1/messages.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	StopSeqs    []string  `json:"stop_sequences,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required: %w", domain.ErrInvalidInput)
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

	header := http.Header{
		"X-Api-Key":         {cfg.APIKey},
		"Anthropic-Version": {anthropicVersion},
	}
	return &LLMService{
		api:   httpjson.New("anthropic", cfg.BaseURL, cfg.Timeout, header),
		model: cfg.Model,
	}, nil
}

// Generate sends a single user turn and joins the text blocks of the reply.
// max_tokens is mandatory for this API; DefaultMaxTokens fills it when unset.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	var resp messagesResponse
	err := s.api.Post(ctx, "/v1/messages", messagesRequest{
		Model:       s.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		System:      opts.System,
		Temperature: opts.Temperature,
		StopSeqs:    opts.StopWords,
	}, &resp)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic: no text content returned")
	}
	return strings.TrimSpace(text.String()), nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/v1/models")
}

func (s *LLMService) Close() error {
	return nil
}
