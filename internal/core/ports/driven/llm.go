package driven

import "context"

// LLMService generates answers for ask. It is optional.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}

// GenerateOptions tune a single Generate call. Zero values leave the
// provider defaults in place.
type GenerateOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
	StopWords   []string
}
