// Package markdown normalises Markdown notes into plain prose.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown notes.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, higher than plaintext
}

// frontMatter holds the user metadata read from a note header.
type frontMatter struct {
	Title string `yaml:"title"`
}

// Normalise strips front matter and Markdown syntax from doc.
// The title comes from doc.Title, then front matter, then the first
// H1 heading, then the file name.
func (n *Normaliser) Normalise(_ context.Context, doc *domain.Document) (*driven.NormaliseResult, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	body, meta := splitFrontMatter(doc.Content)

	out := *doc
	out.Content = Strip(body)
	if out.Title == "" {
		out.Title = meta.Title
	}
	if out.Title == "" {
		out.Title = firstHeading(body)
	}
	if out.Title == "" {
		out.Title = titleFromURL(doc.URL)
	}

	return &driven.NormaliseResult{Document: out}, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body.
// Malformed headers are left in the body.
func splitFrontMatter(content string) (string, frontMatter) {
	var meta frontMatter

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(content, "---\r\n")
	}
	if !ok {
		return content, meta
	}

	header, body, found := strings.Cut(rest, "\n---")
	if !found {
		return content, meta
	}
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		logger.Debug("markdown: ignoring malformed front matter: %v", err)
		return content, frontMatter{}
	}

	// Drop the remainder of the closing fence line.
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return body, meta
}

func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

func titleFromURL(url string) string {
	if url == "" {
		return ""
	}
	name := filepath.Base(url)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

var (
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	embeds       = regexp.MustCompile(`!\[\[[^\]]+\]\]`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	aliasedWiki  = regexp.MustCompile(`\[\[[^\]|]+\|([^\]]+)\]\]`)
	wikiLinks    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s?`)
	hr           = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	tasks        = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\[[ xX]\][ \t]+`)
	listMarkers  = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	htmlTags     = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Strip removes common Markdown formatting, keeping link and code text.
func Strip(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = embeds.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = aliasedWiki.ReplaceAllString(content, "$1")
	content = wikiLinks.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = tasks.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = htmlTags.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
