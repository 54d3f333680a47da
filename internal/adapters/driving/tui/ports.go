// Package tui provides the interactive terminal interface for grimoire.
// It is a driving adapter: views reach the core only through driving ports.
package tui

import (
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Search ranks note chunks. Required.
	Search driving.SearchService

	// Ask answers questions. Optional; the ask view is hidden without it.
	Ask driving.AskService
}

// NewPorts creates a Ports aggregate.
func NewPorts(search driving.SearchService, ask driving.AskService) *Ports {
	return &Ports{Search: search, Ask: ask}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
