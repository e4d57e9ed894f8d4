// Package sanitizer normalizes free-text input before validation and
// persistence. Strategies compose into pipelines so each field type declares
// the exact cleanup it gets.
package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

// stripControl drops control and other non-printable runes. Newlines survive
// as spaces so multi-line comments stay readable.
func stripControl(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			b.WriteRune(r)
			lastWasSpace = false
		}
	}
	return b.String()
}

// SanitizeTitle cleans a booking title or room name: control characters out,
// whitespace collapsed, surrounding space trimmed. Case is preserved.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trim,
	}
	return p.Apply(input)
}

// SanitizeComment applies the same cleanup as titles; comments just carry a
// looser length bound at the validation layer.
func SanitizeComment(input string) string {
	return SanitizeTitle(input)
}

// SanitizeLabel lowercases short labels such as amenities and icon names.
func SanitizeLabel(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trim,
		strings.ToLower,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to every element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
