// Package ask provides the view that answers questions from retrieved notes.
package ask

import (
	"context"
	"errors"
	"fmt"
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

// ErrNoAskService indicates that no LLM is configured for answers.
var ErrNoAskService = errors.New("ask needs llm.provider to be configured")

// View holds the question input, the latest answer and its context.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	statusbar *status.Bar

	askService driving.AskService
	ctx        context.Context

	width      int
	height     int
	ready      bool
	err        error
	answer     *domain.Answer
	focusInput bool
	pending    string
}

// NewView creates an ask view. A nil askService reports ErrNoAskService
// on submit.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewField(s, "Ask", "ask a question about your notes"),
		statusbar:  status.NewBar(s, km),
		askService: askService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context passed to the ask service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.SwitchMode) {
		return v, changeView(messages.ViewSearch)
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
		return v, changeView(messages.ViewMenu)
	case key.Matches(msg, v.keymap.NewQuery):
		v.focusInput = true
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// Ask replaces the typed question with question and submits it.
func (v *View) Ask(question string) tea.Cmd {
	v.input.SetValue(question)
	return v.submit()
}

func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return nil
	}

	v.err = nil
	v.answer = nil
	v.pending = question
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)

	svc, ctx := v.askService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.AskCompleted{Question: question, Err: ErrNoAskService}
		}
		answer, err := svc.Ask(ctx, question, domain.AskOptions{})
		return messages.AskCompleted{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Question != v.pending {
		return
	}
	v.pending = ""

	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.answer = msg.Answer
	v.statusbar.SetState(status.StateAnswered)
	if msg.Answer != nil && msg.Answer.Model != "" {
		v.statusbar.SetMessage("model: " + msg.Answer.Model)
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Grimoire")+v.styles.Muted.Render("  ask"), "")
	sections = append(sections, v.input.View(), "")

	switch {
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	case v.answer != nil:
		sections = append(sections, v.styles.Answer.Width(v.bodyWidth()).Render(v.answer.Text), "")
		if len(v.answer.Context) > 0 {
			sections = append(sections, v.renderContext(), "")
		}
	default:
		sections = append(sections, v.styles.Muted.Render("No answer yet"), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderContext() string {
	lines := make([]string, 0, len(v.answer.Context)+1)
	lines = append(lines, v.styles.Subtitle.Render(fmt.Sprintf("Context (%d)", len(v.answer.Context))))
	for i, c := range v.answer.Context {
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("  [%d] %s", i+1, list.Truncate(c, v.bodyWidth()-8))))
	}
	return strings.Join(lines, "\n")
}

func (v *View) bodyWidth() int {
	if v.width < 24 {
		return 20
	}
	return v.width - 4
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the typed question.
func (v *View) Question() string {
	return v.input.Value()
}

// Answer returns the answer on screen, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset clears the question and answer and focuses the input.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.answer = nil
	v.err = nil
	v.pending = ""
	v.statusbar.Clear()
}
