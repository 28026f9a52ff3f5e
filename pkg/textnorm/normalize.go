// Package textnorm folds free-form text into the shape used for matching:
// lowercase, no punctuation, no diacritics.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, strips combining marks after NFD
// decomposition and drops every remaining rune that is neither a word
// character nor whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Lowercasing first keeps the result stable: some uppercase runes
	// (e.g. U+0130) lower into a base letter plus a combining mark.
	lowered := strings.ToLower(text)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		folded = lowered
	}

	// Filtering last also drops spacing marks (Mc) that only appear once
	// a letter is decomposed.
	return strings.Map(func(r rune) rune {
		if isWord(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, folded)
}

// Fields normalizes text and splits it on whitespace.
func Fields(text string) []string {
	return strings.Fields(Normalize(text))
}

// Canonical normalizes text and collapses runs of whitespace into a single
// space, trimming both ends.
func Canonical(text string) string {
	return strings.Join(Fields(text), " ")
}

// Prefix returns the first n runes of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
