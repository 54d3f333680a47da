// Package domain defines the core entities for Grimoire.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A note or text submitted for indexing
//   - Chunk: A word-budgeted slice of a document
//   - StoreDocument: A (text, normalised vector) record
//   - Store: The ordered, append-only collection of records
//
// Vector maths used by ranking (Normalize, Dot) also lives here so every
// adapter agrees on the same definitions.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
