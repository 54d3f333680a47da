// Package postprocessors turns documents into chunks.
//
// A Pipeline runs PostProcessors in order; the first one creates chunks and
// later ones may rewrite them. Processors are looked up by name in a
// Registry so the pipeline can be described in config.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs its stages in order, feeding each the previous chunks.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline returns a pipeline over the given stages.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// NewPipelineFromConfig builds the stages named in cfg from the built-in
// registry.
func NewPipelineFromConfig(cfg domain.PipelineConfig) (*Pipeline, error) {
	return Builtin().BuildPipeline(cfg)
}

// Process runs doc through every stage. The first stage receives nil chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil: %w", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		out, err := stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		logger.Debug("%s: %d -> %d chunks", stage.Name(), len(chunks), len(out))
		chunks = out
	}
	return chunks, nil
}

// Names lists the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
