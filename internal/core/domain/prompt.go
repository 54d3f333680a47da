package domain

import (
	"fmt"
	"strings"
)

// TemplateSlots counts the %s placeholders in a prompt template. %% is a
// literal percent sign and any other % sequence is plain text.
func TemplateSlots(template string) int {
	n := 0
	for i := 0; i < len(template)-1; i++ {
		if template[i] != '%' {
			continue
		}
		switch template[i+1] {
		case 's':
			n++
			i++
		case '%':
			i++
		}
	}
	return n
}

// FillTemplate substitutes args for the %s placeholders of template in
// order. %% becomes %, other % sequences are copied unchanged. The number
// of args must match TemplateSlots.
func FillTemplate(template string, args ...string) (string, error) {
	if n := TemplateSlots(template); n != len(args) {
		return "", fmt.Errorf("template has %d %%s placeholders, want %d: %w", n, len(args), ErrInvalidInput)
	}

	var b strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '%' && i+1 < len(template) {
			switch template[i+1] {
			case 's':
				b.WriteString(args[next])
				next++
				i++
				continue
			case '%':
				b.WriteByte('%')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
