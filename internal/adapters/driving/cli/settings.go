package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure embedding and LLM providers, the vector store,
the embedding cache, chunking and search defaults.

Settings live in config.toml inside the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its config key, for example:

  grimoire settings set chunker.chunk_size 300
  grimoire settings set store.backend sqlite
  grimoire settings set embedding.rate_limit 5

Run 'grimoire settings keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE:  runSettingsKeys,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively configure the embedding provider used for indexing and search.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively configure the LLM provider used by 'grimoire ask'.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

// field is one "label: value" line of settings show.
type field struct{ label, value string }

func printSection(cmd *cobra.Command, name string, fields ...field) {
	cmd.Printf("[%s]\n", name)
	for _, f := range fields {
		if f.label != "" {
			cmd.Printf("  %s: %s\n", f.label, f.value)
		}
	}
	cmd.Println()
}

// providerFields lists provider, model, endpoint and key lines. Endpoint
// and key only appear where the provider uses them.
func providerFields(p domain.AIProvider, model, baseURL, apiKey string, ok bool) []field {
	fields := []field{{"Provider", p.Description()}, {"Model", model}}
	if p.IsLocal() {
		fields = append(fields, field{"Base URL", baseURL})
	}
	if p.RequiresAPIKey() {
		key := "(not set)"
		if apiKey != "" {
			key = maskAPIKey(apiKey)
		}
		fields = append(fields, field{"API Key", key})
	}
	status := "not configured"
	if ok {
		status = "configured"
	}
	return append(fields, field{"Status", status})
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Current Settings"))
	cmd.Println()

	emb := providerFields(s.Embedding.Provider, s.Embedding.Model, s.Embedding.BaseURL, s.Embedding.APIKey, s.Embedding.IsConfigured())
	rate := field{"Rate limit", "off"}
	if s.Embedding.RateLimit > 0 {
		rate.value = fmt.Sprintf("%g/s (burst %d)", s.Embedding.RateLimit, s.Embedding.Burst)
	}
	printSection(cmd, "Embedding", append(emb, rate)...)
	printSection(cmd, "LLM", providerFields(s.LLM.Provider, s.LLM.Model, s.LLM.BaseURL, s.LLM.APIKey, s.LLM.IsConfigured())...)

	path := s.Store.Path
	switch def := s.Store.Backend.DefaultStorePath(); {
	case path != "":
	case def != "":
		path = def + " (default)"
	default:
		path = "(none)"
	}
	printSection(cmd, "Store", field{"Backend", s.Store.Backend.Description()}, field{"Path", path})

	entries := "unbounded"
	if s.Cache.MaxEntries > 0 {
		entries = fmt.Sprintf("%d (LRU)", s.Cache.MaxEntries)
	}
	printSection(cmd, "Cache", field{"Max entries", entries})
	printSection(cmd, "Chunker",
		field{"Chunk size", fmt.Sprintf("%d words", s.Chunker.ChunkSize)},
		field{"Overlap", fmt.Sprintf("%d words", s.Chunker.Overlap)})
	printSection(cmd, "Search", field{"Top k", strconv.Itoa(s.Search.TopK)})

	if err := settingsService.Validate(); err != nil {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Fix it with 'grimoire settings embedding' or 'grimoire settings set'.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, providerPrompt{
		kind:      "embedding",
		providers: domain.AllEmbeddingProviders(),
		defaults:  domain.DefaultEmbeddingModels(),
		set:       settingsService.SetEmbeddingProvider,
		validate:  settingsService.ValidateEmbeddingConfig,
	})
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, providerPrompt{
		kind:      "LLM",
		providers: domain.AllLLMProviders(),
		defaults:  domain.DefaultLLMModels(),
		set:       settingsService.SetLLMProvider,
		validate:  settingsService.ValidateLLMConfig,
	})
}

// providerPrompt describes one interactive provider selection.
type providerPrompt struct {
	kind      string
	providers []domain.AIProvider
	defaults  map[domain.AIProvider]string
	set       func(domain.AIProvider, string, string) error
	validate  func() error
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, p providerPrompt) error {
	cmd.Printf("Select %s provider\n", p.kind)
	for i, provider := range p.providers {
		cmd.Printf("  %d. %s\n", i+1, provider.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := p.providers[parseChoice(readLine(reader), len(p.providers), 1)-1]

	defaultModel := p.defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := p.set(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", p.kind, err)
	}

	cmd.Print("Validating configuration... ")
	if err := p.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", p.kind, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n", p.kind, selected.Description(), model)
	return nil
}

// readLine returns the next trimmed line. EOF reads as an empty answer.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n') //nolint:errcheck
	return strings.TrimSpace(line)
}

// parseChoice maps a 1-based menu answer to its number, or fallback when
// the answer is blank or out of range.
func parseChoice(input string, n, fallback int) int {
	if v, err := strconv.Atoi(input); err == nil && v >= 1 && v <= n {
		return v
	}
	return fallback
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

// maskAPIKey keeps four characters at each end of keys long enough to
// still hide something.
func maskAPIKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "****"
}
