// Package list renders ranked note chunks.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/tui/styles"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// linesPerResult is the height of one collapsed entry.
const linesPerResult = 2

// ResultList displays search results in a navigable list. The selected
// chunk can be expanded to its full text.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the owning view drives navigation.
func (r *ResultList) Update(tea.Msg) (*ResultList, tea.Cmd) {
	return r, nil
}

// View renders the visible window of results.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))), "")

	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	if r.expanded {
		if sel := r.SelectedResult(); sel != nil {
			lines = append(lines, "", r.styles.Answer.Width(r.innerWidth()).Render(sel.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// window returns the range of results that fit the height, keeping the
// selection visible.
func (r *ResultList) window() (int, int) {
	visible := (r.height - 2) / linesPerResult
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}
	return start, end
}

func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s#%-4d", indicator, result.Position)
	score := fmt.Sprintf("%.4f", result.Score)

	var headLine string
	if index == r.selected {
		headLine = r.styles.Selected.Render(head) + " " + r.styles.Score.Render(score)
	} else {
		headLine = r.styles.Normal.Render(head) + " " + r.styles.Muted.Render(score)
	}

	preview := Truncate(result.Text, r.innerWidth()-4)
	return headLine + "\n" + r.styles.Muted.Render("    "+preview)
}

func (r *ResultList) innerWidth() int {
	if r.width < 24 {
		return 20
	}
	return r.width - 4
}

// Truncate collapses whitespace in text and cuts it to at most n runes,
// marking a cut with "...".
func Truncate(text string, n int) string {
	if n < 4 {
		n = 4
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the results and resets the selection.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
	r.expanded = false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the selected result, or nil if there is none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the selection up and collapses the expanded chunk.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
		r.expanded = false
	}
}

// MoveDown moves the selection down and collapses the expanded chunk.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
		r.expanded = false
	}
}

// ToggleExpanded shows or hides the full text of the selected chunk.
func (r *ResultList) ToggleExpanded() {
	if len(r.results) == 0 {
		return
	}
	r.expanded = !r.expanded
}

// Expanded reports whether the selected chunk is shown in full.
func (r *ResultList) Expanded() bool {
	return r.expanded
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
