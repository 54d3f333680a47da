package postprocessors

import (
	"fmt"
	"sort"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/postprocessors/chunker"
)

// BuilderFunc creates a PostProcessor from its section of the pipeline config.
// cfg may be nil.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry maps processor names to builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Builtin returns a registry holding the processors shipped with grimoire.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("chunker", buildChunker)
	return r
}

// Register adds or replaces the builder for name.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the processor called name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("processor %q (known: %v): %w", name, r.Names(), domain.ErrUnsupportedType)
	}
	return builder(cfg)
}

// BuildPipeline creates every processor listed in cfg, in order.
func (r *Registry) BuildPipeline(cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("pipeline has no processors: %w", domain.ErrInvalidInput)
	}

	stages := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		stages = append(stages, proc)
	}
	return NewPipeline(stages...), nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildChunker reads "chunk_size" and "overlap" (word counts).
// A missing key keeps the chunker default; overlap may be set to 0.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	size, ok, err := intSetting(cfg, "chunk_size")
	if err != nil {
		return nil, err
	}
	if ok {
		if size <= 0 {
			return nil, fmt.Errorf("chunk_size %d: must be positive: %w", size, domain.ErrInvalidInput)
		}
		opts = append(opts, chunker.WithChunkSize(size))
	}

	overlap, ok, err := intSetting(cfg, "overlap")
	if err != nil {
		return nil, err
	}
	if ok {
		if overlap < 0 {
			return nil, fmt.Errorf("overlap %d: must not be negative: %w", overlap, domain.ErrInvalidInput)
		}
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// intSetting reads key as an integer. Decoded TOML and JSON give int64 and
// float64; both are accepted when they hold a whole number.
func intSetting(cfg map[string]any, key string) (int, bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), true, nil
		}
	}
	return 0, false, fmt.Errorf("%s: want an integer, got %v: %w", key, raw, domain.ErrInvalidInput)
}
