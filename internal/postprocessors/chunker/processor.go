// Package chunker provides a sentence-aware, word-budgeted chunking processor.
//
// Text is split into sentences, then sentences are packed into chunks of at
// most chunkSize words. When a chunk is closed, the trailing sentences whose
// combined word count fits in overlap are carried into the next chunk.
// A single sentence longer than chunkSize becomes its own chunk, unsplit.
package chunker

import (
	"context"
	"strings"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of words carried between chunks.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into sentence-aligned chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk budget in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the carry-over budget in words.
// An overlap at or above the chunk size is allowed; chunks then keep
// growing by whole sentences instead of sliding.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk budget in words.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured carry-over budget in words.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Build(doc.Content, doc.ID, doc.URL, p.chunkSize, p.overlap), nil
}

// Build chunks text using the given word budgets.
// Every chunk carries docID and url; ChunkIndex counts from zero.
func Build(text, docID, url string, chunkSize, overlap int) []domain.Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks  []domain.Chunk
		pending []string
		counts  []int
		words   int
	)

	emit := func() {
		chunks = append(chunks, domain.Chunk{
			Text:       strings.Join(pending, " "),
			ChunkIndex: len(chunks),
			TokenCount: words,
			DocID:      docID,
			URL:        url,
		})
	}

	for _, sentence := range sentences {
		n := CountWords(sentence)

		if len(pending) > 0 && words+n > chunkSize {
			emit()
			pending, counts, words = carryOver(pending, counts, overlap)
		}

		pending = append(pending, sentence)
		counts = append(counts, n)
		words += n
	}

	if len(pending) > 0 {
		emit()
	}

	return chunks
}

// carryOver returns the longest suffix of sentences whose word total stays
// within overlap, walking backward and stopping at the first sentence that
// would exceed it.
func carryOver(sentences []string, counts []int, overlap int) ([]string, []int, int) {
	total := 0
	start := len(sentences)
	for i := len(sentences) - 1; i >= 0; i-- {
		if total+counts[i] > overlap {
			break
		}
		total += counts[i]
		start = i
	}

	return sentences[start:], counts[start:], total
}
