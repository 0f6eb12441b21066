// Package parse holds the deterministic message classifiers and extractors
// used ahead of any model call: greeting/hours/cart detection, buy-intent
// heuristics, product hints, quantities and numbered-choice parsing.
package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/constant"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

var (
	// Quantities with a unit, anywhere in the sentence: "cement 200kg",
	// "sand 3m3", "tape measure 5m".
	qtyAnywhereRe = regexp.MustCompile(`\b\d+[,.]?\d*\s*(kg|kilo|kilos|g|gram|grams|m3|m2|m|meter|meters|un|unit|units|bag|bags|can|cans|roll|rolls|piece|pieces|l)\b`)

	// Multipliers like "4x" / "2 x".
	multRe = regexp.MustCompile(`\b\d+\s*x\b`)

	looseNumberRe = regexp.MustCompile(`\b\d+[,.]?\d*\b`)
	spacesRe      = regexp.MustCompile(`\s+`)

	kgQtyRe    = regexp.MustCompile(`(\d+[,.]?\d*)\s*kg\b`)
	unitsQtyRe = regexp.MustCompile(`(\d+[,.]?\d*)\s*(bag|bags|un|unit|units)\b`)
	plainNumRe = regexp.MustCompile(`^\d+[,.]?\d*$`)

	packagingRe = regexp.MustCompile(`\b(20|25|50)\s*kg\b`)

	zipRe = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)

	digitsRe = regexp.MustCompile(`\b\d+\b`)

	hoursWords = []string{"hours", "open", "close", "closing", "opening", "schedule"}

	// Verbs that usually introduce what the customer wants; everything after
	// them is a better hint than the full sentence.
	intentVerbs = []string{"want", "need", "like", "buy", "order", "get"}

	// Stopwords stripped from product hints.
	hintStopwords = map[string]bool{
		"i": true, "a": true, "an": true, "of": true, "to": true, "the": true,
		"and": true,
		"for": true, "some": true, "also": true, "there": true, "please": true,
		"want": true, "wanted": true, "need": true, "needing": true,
		"would": true, "like": true, "buy": true, "order": true, "get": true,
		"me": true, "my": true, "in": true, "on": true, "with": true,
		"without": true, "job": true, "site": true,
	}

	nonHintWords = map[string]bool{
		"delivery": true, "pickup": true,
		"pix": true, "card": true, "cash": true,
		"neighborhood": true, "zip": true, "address": true,
		"ok": true, "sure": true, "right": true, "yes": true, "no": true,
		"order": true, "budget": true, "quote": true,
	}
)

// IsGreeting reports whether the message is a bare greeting (or empty).
func IsGreeting(message string) bool {
	t := textnorm.Norm(message)
	if t == "" {
		return true
	}
	for _, g := range constant.Greetings {
		if t == g {
			return true
		}
		// short variations like "good morning there"
		if strings.HasPrefix(t, g) && len(t) <= len(g)+6 {
			return true
		}
	}
	return false
}

// IsHoursQuestion detects questions about store opening hours.
func IsHoursQuestion(message string) bool {
	t := textnorm.Norm(message)
	for _, w := range hoursWords {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

func IsCartShowRequest(message string) bool {
	return containsAny(textnorm.Norm(message), constant.CartShowKeywords)
}

func IsCartResetRequest(message string) bool {
	return containsAny(textnorm.Norm(message), constant.CartResetKeywords)
}

func IsCheckoutRequest(message string) bool {
	return containsAny(textnorm.Norm(message), constant.CheckoutKeywords)
}

func IsRemovalRequest(message string) bool {
	return containsAny(textnorm.Norm(message), constant.RemoveKeywords)
}

// HasProductIntent is the heuristic gate for "this message looks like an
// order" even without an explicit intent verb.
func HasProductIntent(message string) bool {
	t := textnorm.Norm(message)
	if t == "" {
		return false
	}
	if IsGreeting(message) || IsHoursQuestion(message) {
		return false
	}
	if IsCartResetRequest(message) {
		return false
	}
	if IsCartShowRequest(message) && !containsAny(t, constant.IntentKeywords) {
		return false
	}
	if LooksLikePreferencesOnly(t) {
		return false
	}

	// literally only non-product words ("pix", "delivery", "ok")
	tokens := strings.Fields(t)
	if len(tokens) > 0 {
		all := true
		for _, tok := range tokens {
			if !nonHintWords[tok] {
				all = false
				break
			}
		}
		if all {
			return false
		}
	}

	if containsAny(t, constant.IntentKeywords) {
		return true
	}
	if qtyAnywhereRe.MatchString(t) {
		return true
	}
	for _, w := range constant.BaseProductWords {
		if containsWord(t, w) {
			return true
		}
	}
	return false
}

// LooksLikePreferencesOnly reports whether a normalized message carries only
// delivery/payment/address content and no product words.
func LooksLikePreferencesOnly(t string) bool {
	prefWords := []string{"pix", "card", "cash", "delivery", "pickup", "neighborhood", "zip", "address"}
	if containsAny(t, prefWords) {
		for _, pw := range constant.BaseProductWords {
			if containsWord(t, pw) {
				return false
			}
		}
		return true
	}
	if zipRe.MatchString(t) && len(strings.Fields(t)) <= 2 {
		return true
	}
	return false
}

// ExtractProductHint pulls a short product description out of a free-form
// message, or returns "" when the message is not about a product at all.
//
//	"cement 200kg"               -> "cement"
//	"i want 4 bags of cement cp ii" -> "cement cp ii"
//	"finalize"                   -> ""
//	"delivery and pix"           -> ""
func ExtractProductHint(message string) string {
	if message == "" {
		return ""
	}
	if IsGreeting(message) || IsHoursQuestion(message) || IsCartShowRequest(message) || IsCartResetRequest(message) {
		return ""
	}

	txt := textnorm.Norm(message)
	if txt == "" {
		return ""
	}
	if containsAny(txt, constant.CheckoutKeywords) {
		return ""
	}
	if zipRe.MatchString(message) {
		return ""
	}
	if onlyNonHintTokens(txt) {
		return ""
	}

	rest := txt
	for _, verb := range intentVerbs {
		if idx := indexOfWord(txt, verb); idx >= 0 {
			rest = strings.TrimSpace(txt[idx+len(verb):])
			break
		}
	}

	// everything after a delivery/payment word is a preference, not a product
	for _, cut := range []string{"delivery", "pickup", "pix", "card", "cash", "neighborhood", "zip", "address"} {
		if idx := indexOfWord(rest, cut); idx >= 0 {
			rest = strings.TrimSpace(rest[:idx])
		}
	}

	rest = multRe.ReplaceAllString(rest, " ")
	rest = qtyAnywhereRe.ReplaceAllString(rest, " ")
	rest = looseNumberRe.ReplaceAllString(rest, " ")
	rest = strings.TrimSpace(spacesRe.ReplaceAllString(rest, " "))
	if rest == "" {
		return ""
	}

	var tokens []string
	for _, tok := range strings.Fields(rest) {
		if hintStopwords[tok] || nonHintWords[tok] || len(tok) <= 1 {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > 6 {
		tokens = tokens[:6]
	}
	hint := strings.Join(tokens, " ")
	if IsGreeting(hint) {
		return ""
	}
	return hint
}

// ExtractKgQuantity returns the kilogram quantity in the message, if any.
func ExtractKgQuantity(message string) (float64, bool) {
	return firstGroupAsFloat(kgQtyRe, textnorm.Norm(message))
}

// ExtractUnitsQuantity returns a bag/unit count in the message, if any.
func ExtractUnitsQuantity(message string) (float64, bool) {
	return firstGroupAsFloat(unitsQtyRe, textnorm.Norm(message))
}

// ExtractPlainNumber parses a message that is nothing but a number.
func ExtractPlainNumber(message string) (float64, bool) {
	t := textnorm.Norm(message)
	if !plainNumRe.MatchString(t) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// PackagingKg extracts the bag size (20/25/50 kg) from a product name.
func PackagingKg(productName string) (int, bool) {
	m := packagingRe.FindStringSubmatch(textnorm.Norm(productName))
	if m == nil {
		return 0, false
	}
	kg, _ := strconv.Atoi(m[1])
	return kg, true
}

// SuggestUnitsFromPackaging converts a kilogram quantity into bag units, when
// the product name carries a bag size. The note is shown to the customer:
// "200kg ≈ 4 bag(s) of 50kg".
func SuggestUnitsFromPackaging(productName string, kgQty float64) (float64, string, bool) {
	pkg, ok := PackagingKg(productName)
	if !ok {
		return 0, "", false
	}
	units := kgQty / float64(pkg)
	if rounded := math.Round(units); math.Abs(units-rounded) < 1e-6 {
		units = rounded
	}
	note := fmt.Sprintf("%.0fkg ≈ %.0f bag(s) of %dkg", kgQty, units, pkg)
	return units, note, true
}

// ParseChoiceIndices extracts 0-based option indices from a message like
// "1 and 3", deduplicated and bounded by maxLen.
func ParseChoiceIndices(message string, maxLen int) []int {
	t := textnorm.Norm(message)
	var out []int
	seen := map[int]bool{}
	for _, raw := range digitsRe.FindAllString(t, -1) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		idx := n - 1
		if idx >= 0 && idx < maxLen && !seen[idx] {
			out = append(out, idx)
			seen[idx] = true
		}
	}
	return out
}

func firstGroupAsFloat(re *regexp.Regexp, t string) (float64, bool) {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// onlyNonHintTokens reports whether every token in the normalized text is a
// non-product word ("pix", "delivery", "ok"), matching the inline check in
// HasProductIntent.
func onlyNonHintTokens(t string) bool {
	tokens := strings.Fields(t)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !nonHintWords[tok] {
			return false
		}
	}
	return true
}

func containsAny(t string, kws []string) bool {
	for _, k := range kws {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func containsWord(t, w string) bool {
	return indexOfWord(t, w) >= 0
}

// indexOfWord finds w in t on word boundaries.
func indexOfWord(t, w string) int {
	start := 0
	for {
		idx := strings.Index(t[start:], w)
		if idx < 0 {
			return -1
		}
		abs := start + idx
		leftOK := abs == 0 || t[abs-1] == ' '
		right := abs + len(w)
		rightOK := right == len(t) || t[right] == ' '
		if leftOK && rightOK {
			return abs
		}
		start = abs + 1
	}
}
