package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

type mockAskService struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
	lastOpts     domain.AskOptions
}

func (m *mockAskService) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.answer, m.err
}

type mockIndexService struct {
	name  string
	docs  []domain.Document
	texts []string
	err   error
}

func (m *mockIndexService) IndexDocument(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.docs = append(m.docs, *doc)
	// One chunk per sentence-ish piece keeps the output predictable.
	n := strings.Count(doc.Content, ".")
	if n == 0 {
		n = 1
	}
	return make([]domain.Chunk, n), nil
}

func (m *mockIndexService) IndexTexts(_ context.Context, texts []string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	added := 0
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			m.texts = append(m.texts, t)
			added++
		}
	}
	return added, nil
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.StoreStats, error) {
	return &domain.StoreStats{
		Location:  "/tmp/" + m.name,
		Documents: len(m.docs) + len(m.texts),
		Dimension: 3,
	}, nil
}

type mockSettingsService struct {
	settings domain.AppSettings
	setCalls map[string]string
	setErr   error
	validErr error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		setCalls: make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "chunker.chunk_size"}
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: p, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: p, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return nil }
func (m *mockSettingsService) ValidateLLMConfig() error        { return nil }

var _ driving.SettingsService = (*mockSettingsService)(nil)

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	index    *mockIndexService
	search   *mockSearchService
	ask      *mockAskService
	settings *mockSettingsService
	// overrides records chunker settings passed to NewIndexer.
	overrides []domain.ChunkerSettings
}

// setupTestServices installs mock services and resets command state
// when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		index:    &mockIndexService{name: "default"},
		search:   &mockSearchService{},
		ask:      &mockAskService{answer: &domain.Answer{}},
		settings: newMockSettingsService(),
	}
	SetServices(&Services{
		Index:    ts.index,
		Search:   ts.search,
		Ask:      ts.ask,
		Settings: ts.settings,
		NewIndexer: func(c domain.ChunkerSettings) (driving.IndexService, error) {
			ts.overrides = append(ts.overrides, c)
			return ts.index, nil
		},
	})

	t.Cleanup(func() {
		indexService, searchService, askService, settingsService = nil, nil, nil, nil
		newIndexer, servicesErr, closeServices = nil, nil, nil
		resetFlags(rootCmd)
	})
	return ts
}

// resetFlags restores every flag to its default so that state from one
// Execute does not leak into the next.
func resetFlags(cmd *cobra.Command) {
	searchLimit, searchJSON = 0, false
	askLimit, askShowContext = 0, false
	indexTexts, indexRaw, indexChunkSize, indexOverlap = nil, false, 0, 0

	reset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	// A nil slice makes cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
