package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func TestAskCmd_PrintsAnswer(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.answer = &domain.Answer{
		Text:    "They purr.",
		Context: []string{"Cats purr.", "Kittens sleep."},
		Model:   "llama3.2",
	}

	out, err := execute(t, "ask", "-k", "2", "what", "do", "cats", "do?")

	require.NoError(t, err)
	assert.Equal(t, "what do cats do?", ts.ask.lastQuestion)
	assert.Equal(t, 2, ts.ask.lastOpts.Limit)
	assert.Contains(t, out, "They purr.")
	assert.Contains(t, out, "model: llama3.2")
	assert.NotContains(t, out, "Kittens sleep.")
}

func TestAskCmd_ShowContext(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.answer = &domain.Answer{Text: "Yes.", Context: []string{"Cats purr.", "Kittens sleep."}}

	out, err := execute(t, "ask", "--show-context", "cats?")

	require.NoError(t, err)
	assert.Contains(t, out, "Context:")
	assert.Contains(t, out, "[1] Cats purr.")
	assert.Contains(t, out, "[2] Kittens sleep.")
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.err = domain.ErrLLMUnavailable

	_, err := execute(t, "ask", "cats?")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAskCmd_NotConfigured(t *testing.T) {
	t.Cleanup(func() { resetFlags(rootCmd) })

	_, err := execute(t, "ask", "cats?")

	require.Error(t, err)
	assert.Equal(t, "ask service not configured", err.Error())
}
