package driven

import "github.com/grimoire-notes/grimoire/internal/core/domain"

// AIConfigValidator checks provider settings by contacting the provider.
// Settings that are not configured pass without a request.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
