package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette is the colour set used for terminal output.
var palette = struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}{
	Primary: lipgloss.Color("#7C3AED"), // Purple
	Accent:  lipgloss.Color("#06B6D4"), // Cyan
	Muted:   lipgloss.Color("#6C7086"), // Medium gray
	Warning: lipgloss.Color("#F9E2AF"), // Yellow
	Error:   lipgloss.Color("#F38BA8"), // Red
}

// styles renders command output.
type styles struct {
	Title   lipgloss.Style
	Score   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// stylesFor returns coloured styles when w is a terminal and unstyled
// ones otherwise.
func stylesFor(w io.Writer) styles {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		plain := lipgloss.NewStyle()
		return styles{Title: plain, Score: plain, Muted: plain, Warning: plain, Error: plain}
	}

	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(palette.Primary),
		Score:   lipgloss.NewStyle().Foreground(palette.Accent),
		Muted:   lipgloss.NewStyle().Foreground(palette.Muted),
		Warning: lipgloss.NewStyle().Foreground(palette.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(palette.Error),
	}
}

// snippet shortens text to at most n runes on a single line.
func snippet(text string, n int) string {
	out := make([]rune, 0, n)
	space := false
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = true
			continue
		}
		if len(out) >= n {
			return strings.TrimRight(string(out), " ") + "..."
		}
		space = false
		out = append(out, r)
	}
	return strings.TrimRight(string(out), " ")
}
