package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func withBootstrap(t *testing.T, b Bootstrap) {
	t.Helper()
	bootstrap = b
	t.Cleanup(func() {
		bootstrap = nil
		configDir = ""
		verbose = false
		indexService, searchService, askService, settingsService = nil, nil, nil, nil
		newIndexer, servicesErr, closeServices = nil, nil, nil
		resetFlags(rootCmd)
	})
}

func TestRoot_BootstrapReceivesConfigDir(t *testing.T) {
	search := &mockSearchService{results: []domain.SearchResult{{Text: "hit", Score: 1}}}
	var gotDir string
	withBootstrap(t, func(dir string) (*Services, error) {
		gotDir = dir
		return &Services{Search: search}, nil
	})

	out, err := execute(t, "--config-dir", "/tmp/grimoire-test", "search", "q")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/grimoire-test", gotDir)
	assert.Equal(t, "q", search.lastQuery)
	assert.Contains(t, out, "hit")
}

func TestRoot_BootstrapError(t *testing.T) {
	withBootstrap(t, func(string) (*Services, error) {
		return nil, domain.ErrStoreCorrupt
	})

	_, err := execute(t, "search", "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialising")
	assert.ErrorIs(t, err, domain.ErrStoreCorrupt)
}

func TestRoot_PartialServicesReportCause(t *testing.T) {
	cause := errors.New("embedding provider not configured")
	withBootstrap(t, func(string) (*Services, error) {
		return &Services{Settings: newMockSettingsService(), Err: cause}, nil
	})

	_, err := execute(t, "search", "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestRoot_SettingsWorkWithoutRetrieval(t *testing.T) {
	withBootstrap(t, func(string) (*Services, error) {
		return &Services{Settings: newMockSettingsService(), Err: domain.ErrEmbeddingUnavailable}, nil
	})

	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "embedding.provider")
}

func TestReleaseServices(t *testing.T) {
	calls := 0
	SetServices(&Services{Close: func() { calls++ }})

	releaseServices()
	releaseServices()

	assert.Equal(t, 1, calls)
}

func TestSetServices_Nil(t *testing.T) {
	SetServices(nil)
	assert.Nil(t, searchService)
}

func TestIsStandalone(t *testing.T) {
	version, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.True(t, isStandalone(version))
	assert.False(t, isStandalone(searchCmd))
	assert.False(t, isStandalone(settingsShowCmd))
}
