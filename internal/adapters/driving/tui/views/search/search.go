// Package search provides the view that ranks note chunks against a query.
package search

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/components/input"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/components/list"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/components/status"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/keymap"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/messages"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
)

// View holds the query input, the ranked chunks and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool   // typing a query rather than browsing results
	pending    string // query awaiting results; stale completions are dropped
	lastQuery  string
}

// NewView creates a search view. Nil styles or keymap mean the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewField(s, "Search", "what are you looking for?"),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context passed to the search service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	// Cursor blink and other input ticks.
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.SwitchMode) {
		return v, changeView(messages.ViewAsk)
	}

	if v.focusInput {
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, changeView(messages.ViewMenu)
		case key.Matches(msg, v.keymap.Submit):
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Back):
		if v.list.Expanded() {
			v.list.ToggleExpanded()
			return v, nil
		}
		return v, changeView(messages.ViewMenu)
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.Expand):
		v.list.ToggleExpanded()
	case key.Matches(msg, v.keymap.NewQuery):
		v.focusInput = true
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.AskAbout):
		if v.lastQuery == "" {
			return v, nil
		}
		question := v.lastQuery
		return v, func() tea.Msg { return messages.AskRequested{Question: question} }
	case key.Matches(msg, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// submit starts a search for the typed query. Blank queries are ignored.
func (v *View) submit() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		return nil
	}

	v.err = nil
	v.pending = query
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(query)
}

func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx := v.searchService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.SearchCompleted{Query: query, Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != v.pending {
		return
	}
	v.pending = ""
	v.lastQuery = msg.Query

	if msg.Err != nil {
		v.list.SetResults(nil)
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	v.statusbar.SetState(status.StateResults)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Grimoire")+v.styles.Muted.Render("  search"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // title, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the typed query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery replaces the typed query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// LastQuery returns the query of the results on screen.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Results returns the ranked chunks on screen.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedResult returns the highlighted chunk, if any.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Expanded reports whether the highlighted chunk is shown in full.
func (v *View) Expanded() bool {
	return v.list.Expanded()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset clears the query and results and focuses the input.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.pending = ""
	v.lastQuery = ""
	v.statusbar.Clear()
}
