// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the menu, or closes an expanded chunk.
	Back key.Binding

	// Submit runs the typed query or question.
	Submit key.Binding

	Up   key.Binding
	Down key.Binding

	// NewQuery focuses the input again from the results.
	NewQuery key.Binding

	// Expand shows the full text of the selected chunk.
	Expand key.Binding

	// AskAbout asks the LLM the last search query.
	AskAbout key.Binding

	// SwitchMode toggles between search and ask.
	SwitchMode key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NewQuery: key.NewBinding(
			key.WithKeys("n", "/"),
			key.WithHelp("n", "new query"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand"),
		),
		AskAbout: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "ask"),
		),
		SwitchMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "search/ask"),
		),
	}
}

// ShortHelp returns the hints shown while typing.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchMode, k.Back}
}

// ResultsHelp returns the hints shown while browsing ranked chunks.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Expand, k.AskAbout, k.NewQuery, k.Back}
}

// AnswerHelp returns the hints shown under an answer.
func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.NewQuery, k.SwitchMode, k.Back}
}

// FullHelp returns every binding, grouped for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand},
		{k.Submit, k.NewQuery, k.AskAbout, k.SwitchMode},
		{k.Back, k.Help, k.Quit},
	}
}
