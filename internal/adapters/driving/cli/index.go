package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

var (
	indexTexts     []string
	indexRaw       bool
	indexChunkSize int
	indexOverlap   int
)

var indexCmd = &cobra.Command{
	Use:   "index [files...]",
	Short: "Add notes to the vector store",
	Long: `Splits each file into sentences, packs them into word-budgeted chunks
and appends the embedded chunks to the store.

Use --text to index literal text instead of files. With --raw, each --text
value is stored as a single record without chunking.

Examples:
  grimoire index notes/*.md
  grimoire index --chunk-size 200 --overlap 20 book.txt
  grimoire index --text "Cats purr when content." --raw`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringArrayVar(&indexTexts, "text", nil, "text to index (repeatable)")
	indexCmd.Flags().BoolVar(&indexRaw, "raw", false, "store --text values as-is, without chunking")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "words per chunk (default chunker.chunk_size)")
	indexCmd.Flags().IntVar(&indexOverlap, "overlap", 0, "words carried into the next chunk (default chunker.overlap)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(indexTexts) == 0 {
		return fmt.Errorf("nothing to index: pass files or --text: %w", domain.ErrInvalidInput)
	}

	indexer, err := indexerFor(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if indexRaw {
		if len(args) > 0 {
			return fmt.Errorf("--raw applies to --text only: %w", domain.ErrInvalidInput)
		}
		added, err := indexer.IndexTexts(ctx, indexTexts)
		if err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		cmd.Printf("Indexed %d of %d texts\n", added, len(indexTexts))
		return printStoreSummary(cmd, indexer)
	}

	total := 0
	for i, text := range indexTexts {
		doc := &domain.Document{Title: fmt.Sprintf("text %d", i+1), Content: text}
		chunks, err := indexer.IndexDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		total += len(chunks)
		cmd.Printf("Indexed %s: %d chunks\n", doc.Title, len(chunks))
	}

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		url := filepath.ToSlash(filepath.Clean(path))
		doc := &domain.Document{
			URL:     url,
			Content: string(content),
		}
		chunks, err := indexer.IndexDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		total += len(chunks)
		cmd.Printf("Indexed %s: %d chunks\n", url, len(chunks))
	}

	cmd.Printf("Added %d chunks\n", total)
	return printStoreSummary(cmd, indexer)
}

// indexerFor returns the configured indexer, or one built with the chunker
// overrides given on the command line.
func indexerFor(cmd *cobra.Command) (driving.IndexService, error) {
	sizeSet := cmd.Flags().Changed("chunk-size")
	overlapSet := cmd.Flags().Changed("overlap")

	if !sizeSet && !overlapSet {
		if indexService == nil {
			return nil, notConfigured("index")
		}
		return indexService, nil
	}
	if newIndexer == nil {
		return nil, notConfigured("index")
	}

	chunker := domain.ChunkerSettings{ChunkSize: domain.DefaultChunkSize, Overlap: domain.DefaultChunkOverlap}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			chunker = settings.Chunker
		}
	}
	if sizeSet {
		chunker.ChunkSize = indexChunkSize
	}
	if overlapSet {
		chunker.Overlap = indexOverlap
	}
	if chunker.ChunkSize <= 0 || chunker.Overlap < 0 {
		return nil, fmt.Errorf("chunk size must be positive and overlap non-negative: %w", domain.ErrInvalidInput)
	}
	return newIndexer(chunker)
}

func printStoreSummary(cmd *cobra.Command, indexer driving.IndexService) error {
	stats, err := indexer.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading store stats: %w", err)
	}
	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Muted.Render(fmt.Sprintf("Store: %d records, dimension %d, %s",
		stats.Documents, stats.Dimension, stats.Location)))
	return nil
}
