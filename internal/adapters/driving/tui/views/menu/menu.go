// Package menu provides the start screen of the TUI.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/keymap"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/messages"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
)

// Item is a single menu entry.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// View is the start menu.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the menu. The ask entry is listed only when canAsk.
func NewView(s *styles.Styles, km *keymap.KeyMap, canAsk bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	items := []Item{{Label: "Search", Hint: "rank note chunks by similarity", View: messages.ViewSearch}}
	if canAsk {
		items = append(items, Item{Label: "Ask", Hint: "answer a question from your notes", View: messages.ViewAsk})
	}
	items = append(items,
		Item{Label: "Help", Hint: "keybindings", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)

	return &View{
		styles: s,
		keymap: km,
		items:  items,
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case key.Matches(msg, v.keymap.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case key.Matches(msg, v.keymap.Submit):
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}
		case key.Matches(msg, v.keymap.Help):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHelp}
			}
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Grimoire"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Semantic search over your notes"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + item.Label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + item.Label))
		}
		if item.Hint != "" {
			b.WriteString("  ")
			b.WriteString(v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("[j/k] navigate  [enter] select  [?] help  [q] quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
