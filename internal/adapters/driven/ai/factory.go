// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	lrucache "github.com/grimoire-notes/grimoire/internal/adapters/driven/cache/lru"
	memcache "github.com/grimoire-notes/grimoire/internal/adapters/driven/cache/memory"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/embedding/cached"
	ollamaembed "github.com/grimoire-notes/grimoire/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/grimoire-notes/grimoire/internal/adapters/driven/embedding/openai"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/grimoire-notes/grimoire/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/grimoire-notes/grimoire/internal/adapters/driven/llm/ollama"
	openaillm "github.com/grimoire-notes/grimoire/internal/adapters/driven/llm/openai"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	// Embedder is the fully decorated embedding service (limit, then cache).
	Embedder *cached.EmbeddingService

	// LLMService is nil when no LLM is configured or it is unreachable.
	LLMService driven.LLMService

	Warnings []string // Non-fatal issues, e.g. an unreachable LLM.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedder != nil {
		r.Embedder.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the embedding and LLM services described by settings.
// The embedder is required; a missing or unreachable LLM is only a warning
// since indexing and search work without it. Connectivity is checked only
// when validate is set.
func Initialise(settings domain.AppSettings, validate bool) (*InitResult, error) {
	embedder, err := NewEmbedder(settings, validate)
	if err != nil {
		return nil, err
	}

	result := &InitResult{Embedder: embedder}

	if !settings.LLM.IsConfigured() {
		return result, nil
	}

	buildLLM := func() (driven.LLMService, error) { return CreateLLMService(&settings.LLM) }
	var llm driven.LLMService
	if validate {
		llm, err = connect(buildLLM, domain.ErrLLMUnavailable)
	} else {
		llm, err = buildLLM()
	}
	if err != nil {
		logger.Warn("LLM disabled: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
		return result, nil
	}
	result.LLMService = llm
	return result, nil
}

// NewEmbedder creates the configured embedding service and wraps it with
// rate limiting (when embedding.rate_limit > 0) and the embedding cache.
func NewEmbedder(settings domain.AppSettings, validate bool) (*cached.EmbeddingService, error) {
	if !settings.Embedding.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured. Run 'grimoire settings set embedding.provider ollama'",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	buildEmbedder := func() (driven.EmbeddingService, error) { return CreateEmbeddingService(&settings.Embedding) }
	var (
		base driven.EmbeddingService
		err  error
	)
	if validate {
		base, err = connect(buildEmbedder, domain.ErrEmbeddingUnavailable)
	} else if base, err = buildEmbedder(); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if err != nil {
		return nil, err
	}

	if settings.Embedding.RateLimit > 0 {
		logger.Debug("embedding rate limit %.2f/s burst %d", settings.Embedding.RateLimit, settings.Embedding.Burst)
		base = ratelimit.New(base, ratelimit.Config{
			RequestsPerSecond: settings.Embedding.RateLimit,
			Burst:             settings.Embedding.Burst,
		})
	}

	cache, err := NewCache(settings.Cache)
	if err != nil {
		base.Close()
		return nil, err
	}

	return cached.New(base, cache), nil
}

// NewCache creates the embedding cache: unbounded when MaxEntries is 0,
// otherwise an LRU holding at most MaxEntries vectors.
func NewCache(settings domain.CacheSettings) (driven.EmbeddingCache, error) {
	switch {
	case settings.MaxEntries < 0:
		return nil, fmt.Errorf("cache.max_entries must not be negative: %w", domain.ErrInvalidInput)
	case settings.MaxEntries == 0:
		return memcache.New(), nil
	default:
		return lrucache.New(settings.MaxEntries)
	}
}

// service is what the factory needs from embedding and LLM adapters alike.
type service interface {
	Ping(ctx context.Context) error
	Close() error
}

func ping(svc service) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// connect builds a service and pings it. Failures wrap unavailable.
func connect[S service](build func() (S, error), unavailable error) (S, error) {
	svc, err := build()
	if err != nil {
		return svc, fmt.Errorf("%w: %w. Run 'grimoire settings show' to check the configuration", unavailable, err)
	}
	if err := ping(svc); err != nil {
		svc.Close() //nolint:errcheck // adapters hold no resources yet
		var zero S
		return zero, fmt.Errorf("%w: service unreachable (%w)", unavailable, err)
	}
	return svc, nil
}

// check pings a throwaway service. Unconfigured settings pass.
func check[S service](configured bool, build func() (S, error)) error {
	if !configured {
		return nil
	}
	svc, err := build()
	if err != nil {
		return err
	}
	defer svc.Close()
	return ping(svc)
}

// ValidateEmbeddingConfig pings the provider described by settings.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	return check(settings != nil && settings.IsConfigured(), func() (driven.EmbeddingService, error) {
		return CreateEmbeddingService(settings)
	})
}

// ValidateLLMConfig pings the provider described by settings.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	return check(settings != nil && settings.IsConfigured(), func() (driven.LLMService, error) {
		return CreateLLMService(settings)
	})
}

// CreateEmbeddingService creates the undecorated embedding service for settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider not configured: %w", domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not provide embeddings, use ollama or openai: %w",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

// CreateLLMService creates the LLM service for settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider not configured: %w", domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("LLM provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}
