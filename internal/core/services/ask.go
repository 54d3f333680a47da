package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// contextSeparator joins retrieved chunks in the answer prompt.
const contextSeparator = "\n\n"

// AskService answers questions from retrieved chunks.
type AskService struct {
	search  driving.SearchService
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewAskService creates a new ask service. llm may be nil, in which case
// Ask reports domain.ErrLLMUnavailable.
func NewAskService(search driving.SearchService, llm driven.LLMService, prompts driven.PromptStore) *AskService {
	return &AskService{
		search:  search,
		llm:     llm,
		prompts: prompts,
	}
}

// Ask retrieves the best chunks for question, fills the answer prompt and
// hands it to the LLM.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty: %w", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	template, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return nil, fmt.Errorf("loading answer prompt: %w", err)
	}
	if n := domain.TemplateSlots(template); n != 2 {
		return nil, fmt.Errorf("answer prompt has %d %%s placeholders, want 2: %w", n, domain.ErrInvalidInput)
	}
	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		logger.Debug("No system prompt: %v", err)
		system = ""
	}

	results, err := s.search.Search(ctx, question, domain.SearchOptions{Limit: opts.Limit})
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	logger.Debug("Answering with %d context chunks", len(texts))

	prompt, err := domain.FillTemplate(template, strings.Join(texts, contextSeparator), question)
	if err != nil {
		return nil, fmt.Errorf("filling answer prompt: %w", err)
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{System: system})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:    text,
		Context: texts,
		Model:   s.llm.ModelName(),
	}, nil
}
