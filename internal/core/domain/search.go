package domain

// DefaultTopK is the number of results returned when no limit is given.
const DefaultTopK = 3

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results (k).
	// Zero means "use the configured default"; see SearchService.
	Limit int
}

// SearchResult represents a single ranked hit.
type SearchResult struct {
	// Text is the stored chunk text.
	Text string

	// Score is the cosine similarity to the query.
	Score float64

	// Position is the insertion index of the record in the store.
	Position int
}

// AskOptions configures a question-answering request.
type AskOptions struct {
	// Limit is how many retrieved chunks to hand the LLM as context.
	Limit int
}

// Answer is the result of a retrieval-augmented question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Context lists the retrieved chunk texts, best first.
	Context []string

	// Model names the LLM that produced Text.
	Model string
}
