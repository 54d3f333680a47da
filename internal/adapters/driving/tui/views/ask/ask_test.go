package ask

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/components/status"
	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/messages"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// MockAskService implements driving.AskService for testing.
type MockAskService struct {
	AskFunc   func(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
	questions []string
}

func (m *MockAskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, opts)
	}
	return &domain.Answer{
		Text:    "Cats purr when content.",
		Context: []string{"Cats purr.", "Kittens purr too."},
		Model:   "llama3",
	}, nil
}

func newReadyView(svc *MockAskService) *View {
	var v *View
	if svc == nil {
		v = NewView(nil, nil, nil)
	} else {
		v = NewView(nil, nil, svc)
	}
	v.SetDimensions(100, 30)
	return v
}

func deliver(t *testing.T, v *View, cmd tea.Cmd) *View {
	t.Helper()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockAskService{})

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.True(t, v.InputFocused())
	assert.Nil(t, v.Answer())
	assert.NotNil(t, v.Init())
}

func TestView_Ask(t *testing.T) {
	svc := &MockAskService{}
	v := newReadyView(svc)

	cmd := v.Ask("  why do cats purr? ")
	assert.Equal(t, status.StateThinking, v.Status())
	assert.False(t, v.InputFocused())

	v = deliver(t, v, cmd)

	assert.Equal(t, []string{"why do cats purr?"}, svc.questions)
	require.NotNil(t, v.Answer())
	assert.Equal(t, "Cats purr when content.", v.Answer().Text)
	assert.Equal(t, status.StateAnswered, v.Status())

	out := v.View()
	assert.Contains(t, out, "Cats purr when content.")
	assert.Contains(t, out, "Context (2)")
	assert.Contains(t, out, "[2] Kittens purr too.")
	assert.Contains(t, out, "model: llama3")
}

func TestView_EnterSubmitsTypedQuestion(t *testing.T) {
	svc := &MockAskService{}
	v := newReadyView(svc)
	for _, r := range "why" {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = deliver(t, v, cmd)

	assert.Equal(t, []string{"why"}, svc.questions)
	assert.Equal(t, "why", v.Question())
}

func TestView_BlankQuestionIgnored(t *testing.T) {
	svc := &MockAskService{}
	v := newReadyView(svc)

	assert.Nil(t, v.Ask("   "))
	assert.True(t, v.InputFocused())
	assert.Empty(t, svc.questions)
}

func TestView_NoAskService(t *testing.T) {
	v := newReadyView(nil)

	v = deliver(t, v, v.Ask("why"))

	assert.ErrorIs(t, v.Err(), ErrNoAskService)
	assert.Equal(t, status.StateError, v.Status())
	assert.Contains(t, v.View(), "llm.provider")
}

func TestView_AskError(t *testing.T) {
	svc := &MockAskService{AskFunc: func(context.Context, string, domain.AskOptions) (*domain.Answer, error) {
		return nil, domain.ErrLLMUnavailable
	}}
	v := newReadyView(svc)

	v = deliver(t, v, v.Ask("why"))

	assert.ErrorIs(t, v.Err(), domain.ErrLLMUnavailable)
	assert.Nil(t, v.Answer())
}

func TestView_StaleAnswerDropped(t *testing.T) {
	v := newReadyView(&MockAskService{})
	_ = v.Ask("second")

	v, _ = v.Update(messages.AskCompleted{Question: "first", Answer: &domain.Answer{Text: "old"}})

	assert.Nil(t, v.Answer())
	assert.Equal(t, status.StateThinking, v.Status())
}

func TestView_WithContext(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	var got context.Context
	svc := &MockAskService{AskFunc: func(ctx context.Context, _ string, _ domain.AskOptions) (*domain.Answer, error) {
		got = ctx
		return &domain.Answer{Text: "ok"}, nil
	}}
	v := newReadyView(svc).WithContext(ctx)

	deliver(t, v, v.Ask("why"))

	assert.Equal(t, "v", got.Value(ctxKey("k")))
}

func TestView_KeysAfterAnswer(t *testing.T) {
	v := newReadyView(&MockAskService{})
	v = deliver(t, v, v.Ask("why"))

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.True(t, v.InputFocused())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(nil)

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(&MockAskService{})
	v = deliver(t, v, v.Ask("why"))

	v.Reset()

	assert.True(t, v.InputFocused())
	assert.Equal(t, "", v.Question())
	assert.Nil(t, v.Answer())
	assert.Equal(t, status.StateReady, v.Status())
	assert.Contains(t, v.View(), "No answer yet")
}
