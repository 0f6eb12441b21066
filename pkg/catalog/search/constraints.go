// Package search turns free text plus collected context into structured
// catalog constraints, then runs a staged strict -> relaxed -> generic
// lookup that never silently substitutes a requested spec.
package search

import (
	"regexp"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/constant"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// Constraints is the structured form of "what exactly was asked for".
// MustTerms are hard requirements (AND semantics); ShouldTerms only boost
// ranking. Strict is set whenever at least one must-term exists.
type Constraints struct {
	CategoryHint string
	MustTerms    []string
	ShouldTerms  []string
	Strict       bool
}

var (
	cpPattern = regexp.MustCompile(`\bcp\s*(iii|iv|ii|i|3|4|2|1)\b`)
	acPattern = regexp.MustCompile(`\bac\s*(iii|ii|3|2)\b`)
)

func normalizeGrade(prefix, suffix string) string {
	switch suffix {
	case "1":
		suffix = "i"
	case "2":
		suffix = "ii"
	case "3":
		suffix = "iii"
	case "4":
		suffix = "iv"
	}
	return prefix + " " + suffix
}

// contextKeys are the known-context fields folded into should-terms, in a
// stable order.
var contextKeys = []string{
	"application", "environment", "exposure", "load_type",
	"surface", "grain", "size", "mortar_type",
}

// ExtractConstraints pattern-matches grade codes and fixed attributes from
// the summary text and folds every non-empty known-context value into
// should-terms.
func ExtractConstraints(summaryText, productHint string, knownContext map[string]string) Constraints {
	text := textnorm.Norm(summaryText)
	ph := textnorm.Norm(productHint)

	categoryHint := ph
	if categoryHint == "" {
		for _, w := range constant.BaseProductWords {
			if regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`).MatchString(text) {
				categoryHint = w
				break
			}
		}
	}

	var mustTerms []string
	appendMust := func(term string) {
		for _, existing := range mustTerms {
			if existing == term {
				return
			}
		}
		mustTerms = append(mustTerms, term)
	}

	// cement grade codes (CP II / CP III / ...)
	for _, m := range cpPattern.FindAllStringSubmatch(text, -1) {
		appendMust(normalizeGrade("cp", m[1]))
	}
	// mortar adhesive classes (AC II / AC III)
	for _, m := range acPattern.FindAllStringSubmatch(text, -1) {
		appendMust(normalizeGrade("ac", m[1]))
	}
	// category-fixed attributes
	if strings.Contains(text, "brick") && strings.Contains(text, "8 holes") {
		appendMust("8 holes")
	}
	if strings.Contains(text, "white cement") {
		appendMust("white cement")
	}

	var shouldTerms []string
	for _, k := range contextKeys {
		v := textnorm.Norm(knownContext[k])
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range shouldTerms {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			shouldTerms = append(shouldTerms, v)
		}
	}

	return Constraints{
		CategoryHint: categoryHint,
		MustTerms:    mustTerms,
		ShouldTerms:  shouldTerms,
		Strict:       len(mustTerms) > 0,
	}
}
