package driving

import "github.com/grimoire-notes/grimoire/internal/core/domain"

// SettingsService reads and writes the user's configuration.
type SettingsService interface {
	// Get merges stored values over the defaults.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error

	// Set parses value for key's type and persists it.
	Set(key, value string) error

	// Keys lists what Set accepts.
	Keys() []string

	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks settings offline. The two Validate*Config methods
	// contact the configured providers.
	Validate() error
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error

	GetDefaults() domain.AppSettings
}
