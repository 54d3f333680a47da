// Package input provides the text input used for queries and questions.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
)

// charLimit bounds a query; long questions still fit.
const charLimit = 512

// Field wraps a bubbles textinput with a label.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates a focused input labelled label.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = 50
	ti.Focus()

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the framed input.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label + ": ")
	field := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue replaces the input.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus gives the input keyboard focus.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused reports whether the input has keyboard focus.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// Label returns the input label.
func (f *Field) Label() string {
	return f.label
}

// SetWidth sizes the input to width, leaving room for the label.
func (f *Field) SetWidth(width int) {
	f.width = width
	inner := width - lipgloss.Width(f.label) - 8
	if inner < 20 {
		inner = 20
	}
	f.textinput.Width = inner
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}
