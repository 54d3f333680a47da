package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/watcher"
)

var (
	watchDebounce time.Duration
	watchScan     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [vault-dir]",
	Short: "Index notes as they change",
	Long: `Watches a vault directory recursively and indexes Markdown and text
files after they stop changing. Dot folders such as .git are ignored.

The store is append-only: edited notes are indexed again and deleted notes
keep their stored chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a file is indexed")
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "index existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return notConfigured("index")
	}

	w, err := watcher.New(indexService, watcher.Config{Root: args[0], Debounce: watchDebounce})
	if err != nil {
		return err
	}

	st := stylesFor(cmd.OutOrStdout())
	w.OnEvent(func(ev watcher.Event) {
		if ev.Err != nil {
			cmd.PrintErrln(st.Error.Render(fmt.Sprintf("%s: %v", ev.Path, ev.Err)))
			return
		}
		cmd.Printf("Indexed %s: %d chunks\n", ev.Path, ev.Chunks)
	})

	if watchScan {
		n, err := w.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scanning %s: %w", w.Root(), err)
		}
		cmd.Printf("Scanned %d files\n", n)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Root())
	return w.Run(cmd.Context())
}
