package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

var (
	askLimit       int
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from your notes",
	Long: `Retrieves the chunks most similar to the question and passes them to
the configured LLM as context. Requires llm.provider to be set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "k", 0, "number of chunks to use as context (default search.top_k)")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return notConfigured("ask")
	}

	question := strings.Join(args, " ")
	answer, err := askService.Ask(cmd.Context(), question, domain.AskOptions{Limit: askLimit})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(answer.Text)

	if askShowContext {
		cmd.Println()
		cmd.Println(st.Title.Render("Context:"))
		for i, c := range answer.Context {
			cmd.Printf("  [%d] %s\n", i+1, snippet(c, 200))
		}
	}
	if answer.Model != "" {
		cmd.Println()
		cmd.Println(st.Muted.Render("model: " + answer.Model))
	}
	return nil
}
