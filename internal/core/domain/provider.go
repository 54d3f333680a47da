package domain

const unknownDescription = "Unknown"

// AIProvider names a service that can embed text, generate text, or both.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	label      string
	local      bool
	embedModel string // empty: no embedding endpoint
	llmModel   string
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama:    {label: "Ollama (local)", local: true, embedModel: "nomic-embed-text", llmModel: "llama3.2"},
	AIProviderOpenAI:    {label: "OpenAI (cloud)", embedModel: "text-embedding-3-small", llmModel: "gpt-4o-mini"},
	AIProviderAnthropic: {label: "Anthropic (cloud)", llmModel: "claude-3-5-sonnet-latest"},
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey is true for every hosted provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := providers[p]
	return ok && !info.local
}

func (p AIProvider) IsLocal() bool { return providers[p].local }

func (p AIProvider) String() string { return string(p) }

func (p AIProvider) Description() string {
	if info, ok := providers[p]; ok {
		return info.label
	}
	return unknownDescription
}

// AllEmbeddingProviders lists providers with an embedding endpoint.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps each embedding provider to the model used
// when none is configured.
func DefaultEmbeddingModels() map[AIProvider]string {
	out := make(map[AIProvider]string)
	for p, info := range providers {
		if info.embedModel != "" {
			out[p] = info.embedModel
		}
	}
	return out
}

func DefaultLLMModels() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		out[p] = info.llmModel
	}
	return out
}

// EmbeddingDimensions gives vector sizes for models whose size is fixed
// and documented. Adapters learn the size of anything else on first use.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// StoreBackend names a persistence adapter for the vector store.
type StoreBackend string

const (
	StoreBackendFile   StoreBackend = "file"
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendMemory StoreBackend = "memory" // lost on exit
)

var backends = map[StoreBackend]struct{ label, path string }{
	StoreBackendFile:   {"JSON file", "local_vectors.json"},
	StoreBackendSQLite: {"SQLite database", "vectors.db"},
	StoreBackendMemory: {"In-memory (not persisted)", ""},
}

func (b StoreBackend) IsValid() bool {
	_, ok := backends[b]
	return ok
}

func (b StoreBackend) String() string { return string(b) }

func (b StoreBackend) Description() string {
	if info, ok := backends[b]; ok {
		return info.label
	}
	return unknownDescription
}

// DefaultStorePath is the store's file name inside the config directory.
// Unknown backends get the JSON file name.
func (b StoreBackend) DefaultStorePath() string {
	if info, ok := backends[b]; ok {
		return info.path
	}
	return backends[StoreBackendFile].path
}

func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreBackendFile, StoreBackendSQLite, StoreBackendMemory}
}
