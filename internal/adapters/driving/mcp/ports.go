package mcp

import (
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search ranks stored chunks against a query.
	Search driving.SearchService

	// Index appends new text to the store. Optional; without it the
	// index tool reports ErrIndexingDisabled.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
