package driven

import "context"

// EmbeddingService turns text into vectors. Ollama and OpenAI adapters
// implement it, as do the caching and rate limiting decorators.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is 0 until the provider has answered once.
	Dimensions() int

	ModelName() string

	// Ping makes the cheapest request the provider offers.
	Ping(ctx context.Context) error

	Close() error
}
