package ai

import (
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = ConfigValidator{}

// ConfigValidator lets the settings service ping providers without
// importing adapters.
type ConfigValidator struct{}

func NewConfigValidator() ConfigValidator {
	return ConfigValidator{}
}

func (ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(settings)
}

func (ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	return ValidateLLMConfig(settings)
}
