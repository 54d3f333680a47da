package domain

import "time"

// Document represents a note or block of text submitted for indexing.
type Document struct {
	// ID is the unique identifier for the document.
	// Derived from URL when left empty.
	ID string

	// URL is the original location (vault path, web URL, etc).
	URL string

	// Title is the human-readable title.
	Title string

	// Content is the full text before chunking.
	Content string

	// IndexedAt is when the document was last handed to the indexer.
	IndexedAt time.Time
}

// Chunk is a word-budgeted slice of a document.
// Chunks are immutable once built.
type Chunk struct {
	// Text is the chunk content: its sentences joined by single spaces.
	Text string

	// ChunkIndex is the 0-based position among chunks from one build.
	ChunkIndex int

	// TokenCount is the whitespace-delimited word count of the chunk.
	TokenCount int

	// DocID is the parent document identifier.
	DocID string

	// URL is the parent document location.
	URL string
}
