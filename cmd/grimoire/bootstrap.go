package main

import (
	"fmt"
	"path/filepath"

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/ai"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/config/file"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage"
	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/memory"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/cli"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/core/services"
	"github.com/grimoire-notes/grimoire/internal/logger"
	"github.com/grimoire-notes/grimoire/internal/normalisers"
	"github.com/grimoire-notes/grimoire/internal/postprocessors"
)

// ephemeralDir as the config directory keeps config and vectors in memory
// and serves the built-in prompts.
const ephemeralDir = ":memory:"

// bootstrap wires adapters to services for configDir.
//
// Only a broken config directory is fatal. When the store or the embedding
// provider cannot be built, the settings service is still returned and
// Services.Err carries the cause.
func bootstrap(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	logger.Debug("Config directory: %s", configDir)

	configStore, err := openConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	out := &cli.Services{
		Settings: settingsService,
		Close:    func() {},
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	repo, err := storage.NewRepository(settings.Store, configDir)
	if err != nil {
		out.Err = err
		return out, nil
	}

	aiServices, err := ai.Initialise(*settings, false)
	if err != nil {
		repo.Close() //nolint:errcheck // nothing was written
		out.Err = err
		return out, nil
	}

	store := services.NewVectorStore(repo, aiServices.Embedder)
	newIndexer := func(chunker domain.ChunkerSettings) (driving.IndexService, error) {
		pipeline, err := postprocessors.NewPipelineFromConfig(chunker.PipelineConfig())
		if err != nil {
			return nil, fmt.Errorf("building chunker: %w", err)
		}
		idx := services.NewIndexService(store, pipeline)
		idx.SetNormalisers(normalisers.NewDefaultRegistry())
		return idx, nil
	}

	index, err := newIndexer(settings.Chunker)
	if err != nil {
		aiServices.Close()
		repo.Close() //nolint:errcheck // nothing was written
		out.Err = err
		return out, nil
	}

	prompts := file.BuiltinPromptStore()
	if configDir != ephemeralDir {
		if prompts, err = file.NewPromptStore(filepath.Join(configDir, "prompts")); err != nil {
			aiServices.Close()
			repo.Close() //nolint:errcheck // nothing was written
			return nil, err
		}
	}

	search := services.NewSearchService(store, settings.Search.TopK)

	out.Index = index
	out.Search = search
	out.Ask = services.NewAskService(search, aiServices.LLMService, prompts)
	out.NewIndexer = newIndexer
	out.Close = func() {
		if stats := aiServices.Embedder.Stats(); stats.Hits+stats.Misses > 0 {
			logger.Debug("Embedding cache: %d hits, %d misses, %d entries", stats.Hits, stats.Misses, stats.Entries)
		}
		aiServices.Close()
		if err := repo.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
	return out, nil
}

func openConfig(configDir string) (driven.ConfigStore, error) {
	if configDir == ephemeralDir {
		return memory.NewConfigStore(map[string]any{services.KeyStoreBackend: string(domain.StoreBackendMemory)}), nil
	}
	return file.NewConfigStore(configDir)
}
