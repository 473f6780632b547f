// Package normalize provides text normalization for keyword matching.
// Normalization strips diacritics, lowercases and collapses whitespace so
// that rule keywords can be matched with plain substring checks.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD, drops combining marks and recomposes.
// A fresh transformer chain per call: chained transformers carry state and
// are not safe for concurrent use.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Text normalizes free text: diacritics removed, lowercased, whitespace
// collapsed to single spaces.
func Text(s string) string {
	s = stripDiacritics(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Code normalizes an item code for override lookups: diacritics removed,
// surrounding whitespace trimmed, lowercased.
func Code(s string) string {
	s = stripDiacritics(s)
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokens splits normalized text into word tokens, dropping punctuation.
func Tokens(s string) []string {
	return strings.FieldsFunc(Text(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
