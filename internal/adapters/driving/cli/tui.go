package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Grimoire.

Search ranks note chunks as you submit queries; Ask sends the best chunks
to the configured LLM. Running grimoire without a command in a terminal
opens the same interface.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Submit / Expand chunk
  a        - Ask about the last query
  Tab      - Switch between search and ask
  Esc      - Back
  Ctrl+C   - Quit

With --verbose, logs go to grimoire-tui.log in the temp directory.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runRoot opens the TUI when attached to a terminal and prints help
// otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if !isInteractive(cmd) {
		return cmd.Help()
	}
	return runTUI(cmd, args)
}

func isInteractive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(out.Fd()))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := newTUIApp(cmd.Context())
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; log lines would corrupt it.
	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	if err := app.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp builds the TUI from the configured services.
func newTUIApp(ctx context.Context) (*tui.App, error) {
	if searchService == nil {
		return nil, notConfigured("search")
	}

	app, err := tui.NewApp(tui.NewPorts(searchService, askService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	if ctx != nil {
		app.WithContext(ctx)
	}
	return app, nil
}

// redirectLogs sends log output to a file when verbose and discards it
// otherwise. The returned func restores stderr.
func redirectLogs() (func(), error) {
	if !logger.IsVerbose() {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}

	f, err := tea.LogToFile(filepath.Join(os.TempDir(), "grimoire-tui.log"), "")
	if err != nil {
		return nil, fmt.Errorf("opening TUI log: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
