// Package messages defines the Bubbletea messages exchanged by the TUI views.
package messages

import (
	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the start screen.
	ViewMenu ViewType = iota
	// ViewSearch ranks note chunks against a query.
	ViewSearch
	// ViewAsk answers a question from retrieved chunks.
	ViewAsk
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the name of the view.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewAsk:
		return "ask"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries ranked chunks for Query back to the search view.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// AskRequested switches to the ask view and submits Question.
type AskRequested struct {
	Question string
}

// AskCompleted carries the answer for Question back to the ask view.
type AskCompleted struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// ErrorOccurred signals that an error happened outside a request.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
