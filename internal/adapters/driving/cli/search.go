package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes",
	Long: `Embeds the query and ranks every stored chunk by cosine similarity.
Results are best first; chunks with equal scores keep insertion order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "maximum number of results (default search.top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchHit is the JSON shape of a result.
type searchHit struct {
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
	Text     string  `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return notConfigured("search")
	}

	query := strings.Join(args, " ")
	results, err := searchService.Search(cmd.Context(), query, domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{Rank: i + 1, Score: r.Score, Position: r.Position, Text: r.Text}
	}

	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Results:"))
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s %s\n", i+1,
			st.Score.Render(fmt.Sprintf("%.4f", r.Score)),
			st.Muted.Render(fmt.Sprintf("#%d", r.Position)))
		cmd.Printf("      %s\n", snippet(r.Text, 200))
		cmd.Println()
	}
}
