// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval flow is: document → post-processor pipeline (chunks) →
// embedding service → VectorStore. Queries are embedded, normalised and
// ranked against every stored vector by Rank.
//
// Services are pure Go with no CGO or external dependencies.
package services
