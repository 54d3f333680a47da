// Package cli provides the cobra command tree for grimoire.
//
// Commands talk to the core exclusively through driving ports held in
// package-level variables. The composition root in cmd/grimoire supplies a
// Bootstrap that builds those ports once the root flags are parsed.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// annotationStandalone marks commands that run without bootstrapping.
const annotationStandalone = "grimoire/standalone"

// Services bundles the driving ports used by the commands.
type Services struct {
	Index    driving.IndexService
	Search   driving.SearchService
	Ask      driving.AskService
	Settings driving.SettingsService

	// NewIndexer builds an IndexService with different chunker settings.
	// Used by `index --chunk-size/--overlap`.
	NewIndexer func(domain.ChunkerSettings) (driving.IndexService, error)

	// Err explains why the retrieval services are missing, if they are.
	// Settings commands still work in that case.
	Err error

	// Close releases adapters held by the services.
	Close func()
}

// Bootstrap builds Services for the given config directory.
// An empty configDir means the default location.
type Bootstrap func(configDir string) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	bootstrap Bootstrap

	indexService    driving.IndexService
	searchService   driving.SearchService
	askService      driving.AskService
	settingsService driving.SettingsService
	newIndexer      func(domain.ChunkerSettings) (driving.IndexService, error)
	servicesErr     error
	closeServices   func()
)

var rootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "Semantic search over your notes",
	Long: `Grimoire indexes your notes into a local vector store and answers
queries by embedding similarity. Chunks are built from sentences, embedded
by a configurable provider (Ollama or OpenAI) and ranked by cosine score.

An optional LLM can answer questions using the retrieved chunks as context.
Run without a command in a terminal to open the interactive interface.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.grimoire; \":memory:\" keeps everything in memory)")
}

// Execute runs the command tree. The bootstrap is invoked lazily, after
// flag parsing, for commands that need services.
func Execute(v string, b Bootstrap) error {
	if v != "" {
		version = v
	}
	bootstrap = b
	defer releaseServices()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetServices installs the driving ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	indexService = s.Index
	searchService = s.Search
	askService = s.Ask
	settingsService = s.Settings
	newIndexer = s.NewIndexer
	servicesErr = s.Err
	closeServices = s.Close
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || isStandalone(cmd) {
		return nil
	}
	// Bare grimoire outside a terminal only prints help.
	if !cmd.HasParent() && !isInteractive(cmd) {
		return nil
	}

	s, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(s)
	return nil
}

func isStandalone(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationStandalone] == "true" {
			return true
		}
	}
	return false
}

func releaseServices() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

// notConfigured reports a missing service, with the bootstrap cause if known.
func notConfigured(name string) error {
	msg := name + " service not configured"
	if servicesErr != nil {
		return fmt.Errorf("%s: %w", msg, servicesErr)
	}
	return errors.New(msg)
}
