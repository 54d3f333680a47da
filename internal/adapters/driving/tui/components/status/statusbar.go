// Package status provides the status bar shown under each view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/keymap"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
)

// State is what the owning view is doing.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateThinking  State = "thinking"
	StateResults   State = "results"
	StateAnswered  State = "answered"
	StateError     State = "error"
)

// Bar displays the current state on the left and key hints on the right.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	width       int
}

// NewBar creates a status bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar across the full width.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateResults:
		if s.resultCount == 1 {
			return s.styles.Normal.Render("1 result")
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount))
	case StateAnswered:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
		return s.styles.Success.Render("Answered")
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Muted.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateResults:
		if s.resultCount > 0 {
			bindings = s.keymap.ResultsHelp()
		} else {
			bindings = s.keymap.AnswerHelp()
		}
	case StateAnswered, StateError:
		bindings = s.keymap.AnswerHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the text shown for error, answered and ready states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the count shown in the results state.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
