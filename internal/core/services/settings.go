package services

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedRateLimit  = "embedding.rate_limit"
	KeyEmbedBurst      = "embedding.burst"
	KeyLLMProvider     = "llm.provider"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyLLMAPIKey       = "llm.api_key"
	KeyStoreBackend    = "store.backend"
	KeyStorePath       = "store.path"
	KeyCacheMaxEntries = "cache.max_entries"
	KeyChunkSize       = "chunker.chunk_size"
	KeyChunkOverlap    = "chunker.overlap"
	KeySearchTopK      = "search.top_k"
)

// settingKeys lists every settable key in display order.
var settingKeys = []string{
	KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyEmbedRateLimit, KeyEmbedBurst,
	KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
	KeyStoreBackend, KeyStorePath,
	KeyCacheMaxEntries,
	KeyChunkSize, KeyChunkOverlap,
	KeySearchTopK,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Keys returns the settable config keys in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Get retrieves current application settings, filling unset keys from defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:     s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:   s.lookupString(KeyEmbedBaseURL), // empty is valid for cloud providers
			APIKey:    s.lookupString(KeyEmbedAPIKey),
			RateLimit: s.getFloat(KeyEmbedRateLimit, defaults.Embedding.RateLimit),
			Burst:     s.getInt(KeyEmbedBurst, defaults.Embedding.Burst),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.lookupString(KeyLLMBaseURL),
			APIKey:   s.lookupString(KeyLLMAPIKey),
		},
		Store: domain.StoreSettings{
			Backend: s.getBackend(defaults.Store.Backend),
			Path:    s.lookupString(KeyStorePath),
		},
		Cache: domain.CacheSettings{
			MaxEntries: s.getInt(KeyCacheMaxEntries, defaults.Cache.MaxEntries),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(KeyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getInt(KeyChunkOverlap, defaults.Chunker.Overlap),
		},
		Search: domain.SearchSettings{
			TopK: s.getInt(KeySearchTopK, defaults.Search.TopK),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty API keys are not written so an
// existing key is never cleared by accident.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	type entry struct {
		key   string
		value any
	}
	values := []entry{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedRateLimit, settings.Embedding.RateLimit},
		{KeyEmbedBurst, settings.Embedding.Burst},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyStoreBackend, settings.Store.Backend.String()},
		{KeyStorePath, settings.Store.Path},
		{KeyCacheMaxEntries, settings.Cache.MaxEntries},
		{KeyChunkSize, settings.Chunker.ChunkSize},
		{KeyChunkOverlap, settings.Chunker.Overlap},
		{KeySearchTopK, settings.Search.TopK},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, entry{KeyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, entry{KeyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value according to key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	parsed, err := parseSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseSetting(key, value string) (any, error) {
	switch key {
	case KeyEmbedProvider:
		p := domain.AIProvider(value)
		if !slices.Contains(domain.AllEmbeddingProviders(), p) {
			return nil, fmt.Errorf("%s: %q does not provide embeddings: %w", key, value, domain.ErrInvalidInput)
		}
		return value, nil

	case KeyLLMProvider:
		if value != "" && !domain.AIProvider(value).IsValid() {
			return nil, fmt.Errorf("%s: unknown provider %q: %w", key, value, domain.ErrInvalidInput)
		}
		return value, nil

	case KeyStoreBackend:
		if !domain.StoreBackend(value).IsValid() {
			return nil, fmt.Errorf("%s: unknown backend %q: %w", key, value, domain.ErrInvalidInput)
		}
		return value, nil

	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey,
		KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey, KeyStorePath:
		return value, nil

	case KeyEmbedRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%s: want a non-negative number, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		return f, nil

	case KeyChunkSize, KeySearchTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: want a positive integer, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		return n, nil

	case KeyChunkOverlap, KeyEmbedBurst, KeyCacheMaxEntries:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: want a non-negative integer, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings: %w", provider, domain.ErrInvalidInput)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s: %w", provider, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, provider, domain.DefaultEmbeddingModels())
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider %s: %w", provider, domain.ErrInvalidInput)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s: %w", provider, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, provider, domain.DefaultLLMModels())
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

func modelOrDefault(model string, provider domain.AIProvider, defaults map[domain.AIProvider]string) string {
	if model != "" {
		return model
	}
	return defaults[provider]
}

// baseURLFor keeps a custom URL for local providers and clears it for cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}

// Validate checks the current settings are usable for indexing and search.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider))
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %q is missing an API key", settings.LLM.Provider))
	}
	if !settings.Store.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("unknown store backend %q", settings.Store.Backend))
	}
	if settings.Chunker.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunker.chunk_size must be positive"))
	}
	if settings.Chunker.Overlap < 0 {
		errs = append(errs, errors.New("chunker.overlap must not be negative"))
	}
	if settings.Search.TopK <= 0 {
		errs = append(errs, errors.New("search.top_k must be positive"))
	}
	if settings.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache.max_entries must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Typed reads. A value of the wrong type counts as unset, so the default
// applies.

func (s *SettingsService) lookupString(key string) string {
	v, _ := s.configStore.Get(key)
	str, _ := v.(string)
	return str
}

func (s *SettingsService) lookupNumber(key string) (float64, bool) {
	v, ok := s.configStore.Get(key)
	if !ok {
		return 0, false
	}
	// TOML integers decode as int64; values set in-process may be int.
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.lookupString(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt treats an explicit 0 as set, since overlap and max_entries accept it.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	n, ok := s.lookupNumber(key)
	if !ok {
		return defaultVal
	}
	return int(n)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	n, ok := s.lookupNumber(key)
	if !ok {
		return defaultVal
	}
	return n
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.lookupString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.lookupString(KeyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
