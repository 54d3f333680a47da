package domain

// Chunk budgets in words.
const (
	DefaultChunkSize    = 400
	DefaultChunkOverlap = 50
)

// EmbeddingSettings select and tune the embedding provider.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string // overrides the provider's default endpoint
	APIKey   string

	// RateLimit is requests per second; 0 turns limiting off.
	RateLimit float64
	Burst     int
}

func (e EmbeddingSettings) IsConfigured() bool {
	return configured(e.Provider, e.APIKey)
}

// LLMSettings select the provider used by ask. The zero value means no LLM.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

func (l LLMSettings) IsConfigured() bool {
	return configured(l.Provider, l.APIKey)
}

func configured(p AIProvider, apiKey string) bool {
	return p.IsValid() && (apiKey != "" || !p.RequiresAPIKey())
}

type StoreSettings struct {
	Backend StoreBackend
	// Path is relative to the config directory unless absolute. Empty
	// means Backend.DefaultStorePath().
	Path string
}

type CacheSettings struct {
	MaxEntries int // 0: unbounded
}

type ChunkerSettings struct {
	ChunkSize int
	Overlap   int
}

// PipelineConfig returns the default pipeline with these budgets.
func (c ChunkerSettings) PipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"chunk_size": c.ChunkSize,
		"overlap":    c.Overlap,
	}
	return cfg
}

type SearchSettings struct {
	TopK int
}

// AppSettings is everything the config file can hold.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Store     StoreSettings
	Cache     CacheSettings
	Chunker   ChunkerSettings
	Search    SearchSettings
}

// DefaultAppSettings embeds with a local Ollama into a JSON file and
// leaves the LLM unset.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    providers[AIProviderOllama].embedModel,
		},
		Store:   StoreSettings{Backend: StoreBackendFile},
		Chunker: ChunkerSettings{ChunkSize: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Search:  SearchSettings{TopK: DefaultTopK},
	}
}

// PipelineConfig names the post-processors to run, in order, with an
// untyped option map per processor. The registry validates the options.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns nil for processors without options.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	return c.ProcessorConfigs[name]
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {"chunk_size": DefaultChunkSize, "overlap": DefaultChunkOverlap},
		},
	}
}
