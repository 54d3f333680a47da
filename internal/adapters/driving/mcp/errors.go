// Package mcp provides an MCP (Model Context Protocol) server adapter for grimoire.
// It lets AI assistants search the vector store and add notes to it.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrIndexingDisabled is returned by the index tool when no index service is wired.
var ErrIndexingDisabled = errors.New("mcp: indexing is not enabled")
