package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	for in, want := range map[string]string{
		"":                       "****",
		"abc123":                 "****",
		"12345678":               "****",
		"sk-1234567890abcdef":    "sk-1...cdef",
		"sk-proj-1234567890wxyz": "sk-p...wxyz",
	} {
		assert.Equal(t, want, maskAPIKey(in), "key %q", in)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
	}{
		{"", 1, 1},
		{"   ", 1, 1},
		{"abc", 2, 2},
		{"0", 1, 1},
		{"-1", 1, 1},
		{"6", 1, 1},
		{"1", 3, 1},
		{"3", 1, 3},
		{"5", 1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.in, 5, tt.fallback), "input %q", tt.in)
	}
}

func TestSettingsShow(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Embedding.RateLimit = 2.5
	ts.settings.settings.Embedding.Burst = 4
	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}
	ts.settings.settings.Cache.MaxEntries = 1000

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: Ollama (local)")
	assert.Contains(t, out, "Model: nomic-embed-text")
	assert.Contains(t, out, "Rate limit: 2.5/s (burst 4)")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Backend: JSON file")
	assert.Contains(t, out, "Path: local_vectors.json (default)")
	assert.Contains(t, out, "Max entries: 1000 (LRU)")
	assert.Contains(t, out, "Chunk size: 400 words")
	assert.Contains(t, out, "Overlap: 50 words")
	assert.Contains(t, out, "Top k: 3")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validErr = errors.New("embedding provider not configured")

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: embedding provider not configured")
}

func TestSettingsSet(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "settings", "set", "chunker.chunk_size", "300")

	require.NoError(t, err)
	assert.Equal(t, "300", ts.settings.setCalls["chunker.chunk_size"])
	assert.Contains(t, out, "chunker.chunk_size = 300")
}

func TestSettingsSet_MasksAPIKey(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "llm.api_key", "sk-ant-0123456789")

	require.NoError(t, err)
	assert.Contains(t, out, "llm.api_key = sk-a...6789")
}

func TestSettingsSet_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.setErr = domain.ErrInvalidInput

	_, err := execute(t, "settings", "set", "nope", "1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsKeys(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Equal(t, "embedding.provider\nchunker.chunk_size\n", out)
}

func TestSettingsEmbedding_Interactive(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("1\nmxbai-embed-large\n"))

	out, err := execute(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.settings.Embedding.Provider)
	assert.Equal(t, "mxbai-embed-large", ts.settings.settings.Embedding.Model)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsLLM_InteractiveDefaultModel(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("1\n\n"))

	_, err := execute(t, "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.settings.LLM.Provider)
	assert.Equal(t, "llama3.2", ts.settings.settings.LLM.Model)
}

func TestSettings_NotConfigured(t *testing.T) {
	t.Cleanup(func() { resetFlags(rootCmd) })

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Equal(t, "settings service not configured", err.Error())
}
