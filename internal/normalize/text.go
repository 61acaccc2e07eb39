// Package normalize implements the per-field canonicalization rules for lead
// records. Every normalizer is total: malformed input maps to the absent
// value (empty string or zero value), never to an error.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and removes combining marks, turning "ã" into
// "a" and dropping stylized variants.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var titleCaser = cases.Title(language.BrazilianPortuguese)

// Fold removes accents and every non-alphanumeric, non-space character, then
// collapses runs of whitespace. Spaced-out letters ("J O A O") collapse into
// a single word.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}

	longest := 0
	for _, w := range words {
		if len(w) > longest {
			longest = len(w)
		}
	}
	if longest <= 1 {
		return strings.Join(words, "")
	}
	return strings.Join(words, " ")
}

// Clean is the comparison form used by the classifiers: lowercased, with all
// whitespace, punctuation, and accents removed.
func Clean(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return Fold(b.String())
}

// Name canonicalizes a person or city name: folded and title-cased per word.
// Empty result means absent.
func Name(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	folded := Fold(raw)
	if folded == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(folded))
}

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
