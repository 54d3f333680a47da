package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests provider recognition
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "empty is invalid", provider: AIProvider(""), expected: false},
		{name: "gemini is invalid", provider: AIProvider("gemini"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests which providers need keys
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
}

// TestAIProvider_Description tests human-readable names
func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
	assert.Equal(t, "openai", AIProviderOpenAI.String())
}

// TestEmbeddingSettings_IsConfigured tests embedding configuration checks
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

// TestLLMSettings_IsConfigured tests LLM configuration checks
func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

// TestStoreBackend tests backend recognition and defaults
func TestStoreBackend(t *testing.T) {
	for _, b := range AllStoreBackends() {
		assert.True(t, b.IsValid(), b.String())
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, StoreBackend("redis").IsValid())
	assert.Equal(t, unknownDescription, StoreBackend("redis").Description())

	assert.Equal(t, "local_vectors.json", StoreBackendFile.DefaultStorePath())
	assert.Equal(t, "vectors.db", StoreBackendSQLite.DefaultStorePath())
	assert.Empty(t, StoreBackendMemory.DefaultStorePath())
}

// TestDefaultAppSettings tests default values
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", s.Embedding.Model)
	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, StoreBackendFile, s.Store.Backend)
	assert.Zero(t, s.Cache.MaxEntries)
	assert.Equal(t, 400, s.Chunker.ChunkSize)
	assert.Equal(t, 50, s.Chunker.Overlap)
	assert.Equal(t, 3, s.Search.TopK)
}

// TestDefaultModels tests the provider model maps
func TestDefaultModels(t *testing.T) {
	emb := DefaultEmbeddingModels()
	assert.Contains(t, emb, AIProviderOllama)
	assert.Contains(t, emb, AIProviderOpenAI)
	assert.NotContains(t, emb, AIProviderAnthropic)

	llm := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, llm[p], p.String())
	}

	dims := EmbeddingDimensions()
	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}

// TestPipelineConfig tests processor config lookup
func TestPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	require.Equal(t, []string{"chunker"}, cfg.Processors)

	chunker := cfg.GetProcessorConfig("chunker")
	require.NotNil(t, chunker)
	assert.Equal(t, DefaultChunkSize, chunker["chunk_size"])
	assert.Equal(t, DefaultChunkOverlap, chunker["overlap"])
	assert.Nil(t, cfg.GetProcessorConfig("missing"))

	var empty PipelineConfig
	assert.Nil(t, empty.GetProcessorConfig("chunker"))
}

// TestChunkerSettings_PipelineConfig tests custom chunk sizes flow into the pipeline
func TestChunkerSettings_PipelineConfig(t *testing.T) {
	cfg := ChunkerSettings{ChunkSize: 120, Overlap: 10}.PipelineConfig()

	chunker := cfg.GetProcessorConfig("chunker")
	require.NotNil(t, chunker)
	assert.Equal(t, 120, chunker["chunk_size"])
	assert.Equal(t, 10, chunker["overlap"])

	// Defaults are not mutated.
	defaults := DefaultPipelineConfig()
	assert.Equal(t, DefaultChunkSize, defaults.GetProcessorConfig("chunker")["chunk_size"])
}
