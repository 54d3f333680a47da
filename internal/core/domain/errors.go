package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider, backend or processor.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and search both need embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Store Errors.

	// ErrStoreCorrupt indicates the persisted store could not be decoded.
	// A missing store is not corrupt; it loads as empty.
	ErrStoreCorrupt = errors.New("vector store corrupt")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the dimension already recorded for the store.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited indicates the embedding provider rejected a call for rate.
	ErrRateLimited = errors.New("rate limited")
)
