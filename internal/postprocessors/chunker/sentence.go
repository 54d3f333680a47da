package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text into sentences.
//
// A boundary is a run of whitespace directly preceded by '.', '!' or '?'.
// The whitespace run is consumed, the punctuation stays with the sentence
// before it. Each sentence is trimmed and empty sentences are dropped, so
// empty or all-whitespace input yields no sentences.
func SplitSentences(text string) []string {
	var sentences []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	var prev rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) && isTerminator(prev) {
			add(text[start:i])
			i = skipSpace(text, i)
			start = i
			prev = 0
			continue
		}
		prev = r
		i += size
	}
	add(text[start:])

	return sentences
}

// CountWords returns the number of whitespace-delimited words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
