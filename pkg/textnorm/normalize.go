// Package textnorm provides deterministic text normalization for message
// matching: case folding, accent stripping, whitespace collapsing and a few
// domain spelling unifications (cement/mortar grade codes).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Grade-code variants users actually type. Applied after lowercasing.
	gradeUnifications = []struct{ from, to string }{
		{"cpiii", "cp iii"},
		{"cp3", "cp iii"},
		{"cpiv", "cp iv"},
		{"cp4", "cp iv"},
		{"cpii", "cp ii"},
		{"cp2", "cp ii"},
		{"aciii", "ac iii"},
		{"ac3", "ac iii"},
		{"acii", "ac ii"},
		{"ac2", "ac ii"},
	}

	accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripAccents removes combining marks: "fundação" -> "fundacao".
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Norm lowercases, strips accents and punctuation, collapses whitespace and
// unifies common grade-code spellings. Pure and deterministic; every keyword
// table in this repo is matched against Norm output.
func Norm(s string) string {
	s = StripAccents(strings.ToLower(s))
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	for _, u := range gradeUnifications {
		s = strings.ReplaceAll(s, u.from, u.to)
	}
	return s
}
