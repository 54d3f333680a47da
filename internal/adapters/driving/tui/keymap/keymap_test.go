package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
	assert.Equal(t, []string{"esc"}, km.Back.Keys())
	assert.Equal(t, []string{"up", "k"}, km.Up.Keys())
	assert.Equal(t, []string{"down", "j"}, km.Down.Keys())
	assert.Equal(t, []string{"a"}, km.AskAbout.Keys())
	assert.Equal(t, []string{"tab"}, km.SwitchMode.Keys())
}

func TestKeyMap_MatchesKeyMessages(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, km.Up},
		{"vim down", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, km.Down},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, km.Back},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, km.SwitchMode},
		{"slash", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}, km.NewQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}

	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, km.Up))
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Len(t, km.ResultsHelp(), 5)
	assert.Len(t, km.AnswerHelp(), 3)

	full := km.FullHelp()
	require.Len(t, full, 3)
	for _, group := range full {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}
