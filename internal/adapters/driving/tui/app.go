package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/keymap"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/messages"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/views/ask"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/views/menu"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/views/search"
)

// App is the root Bubbletea model. It routes messages to the active view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView   *menu.View
	searchView *search.View
	askView    *ask.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application. It starts on the menu.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		menuView:    menu.NewView(s, km, ports.Ask != nil),
		searchView:  search.NewView(s, km, ports.Search),
		askView:     ask.NewView(s, km, ports.Ask),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context handed to the core services.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("grimoire")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.AskRequested:
		if a.ports.Ask == nil {
			a.err = ask.ErrNoAskService
			a.searchView, cmd = a.searchView.Update(messages.ErrorOccurred{Err: ask.ErrNoAskService})
			return a, cmd
		}
		a.currentView = messages.ViewAsk
		return a, a.askView.Ask(msg.Question)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.AskCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Blink ticks and other component messages.
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewMenu, messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?" {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchTo activates view. Search and ask start with a fresh input.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view == messages.ViewAsk && a.ports.Ask == nil {
		view = messages.ViewSearch
	}
	a.currentView = view

	switch view {
	case messages.ViewSearch:
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewAsk:
		a.askView.Reset()
		return a.askView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Search ranks chunks by cosine similarity. Ask sends the best chunks to the LLM."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the program on the terminal and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a view.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
}
