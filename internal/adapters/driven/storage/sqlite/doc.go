// Package sqlite provides a SQLite-backed vector store repository.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// Records live in a single table, store_docs(position, text, vector), where
// position preserves insertion order and vector holds little-endian float32
// values. The schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Semantics
//
// The repository mirrors the JSON file layout: Load reads every row ordered by
// position and Save replaces the table contents inside one transaction.
//
// # Thread Safety
//
// The database is opened in WAL mode with a busy timeout, so readers in other
// processes do not block while a save is in progress.
package sqlite
