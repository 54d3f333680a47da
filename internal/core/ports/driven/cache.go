package driven

// EmbeddingCache maps input text to a previously computed vector.
//
// Keys are a deterministic hash of the exact input text, so identical text
// always hits and any change (including whitespace) misses. Implementations
// must copy vectors on the way in and out so callers cannot alias cached
// state. An unbounded implementation never evicts; bounded ones evict
// least-recently-used entries.
type EmbeddingCache interface {
	// Get returns the cached vector for text, if any.
	Get(text string) ([]float32, bool)

	// Set stores vector for text, overwriting any existing entry.
	Set(text string, vector []float32)

	// Clear removes every entry.
	Clear()

	// Size returns the number of entries.
	Size() int
}
