// Package prefs passively extracts delivery, payment and address data from
// free-form messages. Extraction never answers the customer: it only
// produces state patches, so preferences can be captured mid-sentence
// ("200kg of cement, delivery in riverside, pix") without derailing the
// active flow.
package prefs

import (
	"regexp"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// DeliveryNeighborhoods is the delivery coverage area.
var DeliveryNeighborhoods = []string{"riverside", "lakeview", "hillcrest", "brookfield", "downtown"}

var (
	ZipRegex = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)

	streetWords = []string{"street", "avenue", "ave ", "st ", "road", "lane", "boulevard"}

	ackWords = map[string]bool{"ok": true, "sure": true, "right": true, "done": true, "that": true, "thats it": true}

	trailingNumberRe = regexp.MustCompile(`,\s*\d+`)
)

// DetectNeighborhood returns the covered neighborhood mentioned in the
// message, or "".
func DetectNeighborhood(message string) string {
	t := textnorm.Norm(message)
	t = strings.TrimPrefix(t, "neighborhood ")
	for _, n := range DeliveryNeighborhoods {
		if strings.Contains(t, n) {
			return n
		}
	}
	return ""
}

// AddressPatch extracts postal code, street address and neighborhood from the
// message. Returns nil when nothing was found.
func AddressPatch(message string) map[string]interface{} {
	patch := map[string]interface{}{}
	raw := strings.TrimSpace(message)

	if m := ZipRegex.FindString(raw); m != "" {
		zip := strings.ReplaceAll(m, "-", "")
		patch[state.KeyPostalCode] = zip[:5] + "-" + zip[5:]
	}

	t := textnorm.Norm(raw)
	for _, w := range streetWords {
		if strings.Contains(t, w) {
			patch[state.KeyAddress] = raw
			break
		}
	}

	if n := DetectNeighborhood(raw); n != "" {
		patch[state.KeyNeighborhood] = n
	}

	if len(patch) == 0 {
		return nil
	}
	return patch
}

// PreferencesPatch extracts delivery mode and payment method, diffed against
// the current state so unchanged preferences produce no patch. Switching to
// pickup clears any stored address.
func PreferencesPatch(message string, st map[string]interface{}) map[string]interface{} {
	t := textnorm.Norm(message)
	patch := map[string]interface{}{}

	if strings.Contains(t, "delivery") && state.Str(st, state.KeyDeliveryPref) != "delivery" {
		patch[state.KeyDeliveryPref] = "delivery"
	}
	if containsAny(t, []string{"pickup", "pick up", "collect at the store"}) && state.Str(st, state.KeyDeliveryPref) != "pickup" {
		patch[state.KeyDeliveryPref] = "pickup"
		patch[state.KeyNeighborhood] = nil
		patch[state.KeyPostalCode] = nil
		patch[state.KeyAddress] = nil
	}

	if strings.Contains(t, "pix") && state.Str(st, state.KeyPaymentMethod) != "pix" {
		patch[state.KeyPaymentMethod] = "pix"
	}
	if containsAny(t, []string{"card", "credit", "debit"}) && state.Str(st, state.KeyPaymentMethod) != "card" {
		patch[state.KeyPaymentMethod] = "card"
	}
	if strings.Contains(t, "cash") && state.Str(st, state.KeyPaymentMethod) != "cash" {
		patch[state.KeyPaymentMethod] = "cash"
	}

	if n := DetectNeighborhood(message); n != "" && state.Str(st, state.KeyNeighborhood) != n {
		patch[state.KeyNeighborhood] = n
	}

	if len(patch) == 0 {
		return nil
	}
	return patch
}

// IsPreferencesOnly reports whether the message is purely a preference or
// address update, with no product intent. Quantity answers are never
// intercepted here.
func IsPreferencesOnly(message string, st map[string]interface{}) bool {
	if state.Bool(st, state.KeyAwaitingQty) {
		return false
	}

	t := textnorm.Norm(message)
	raw := strings.TrimSpace(message)

	if ackWords[t] {
		return true
	}

	rawNoSpace := strings.ReplaceAll(raw, " ", "")
	if m := ZipRegex.FindString(rawNoSpace); m == rawNoSpace && m != "" {
		return true
	}

	if strings.HasPrefix(t, "neighborhood ") {
		return true
	}
	for _, n := range DeliveryNeighborhoods {
		if t == n {
			return true
		}
	}

	if containsAny(t, []string{"delivery", "pickup", "pick up", "collect at the store", "pix", "card", "cash"}) {
		return true
	}

	for _, w := range streetWords {
		if strings.Contains(t, w) {
			return true
		}
	}
	if strings.Contains(t, "number ") || trailingNumberRe.MatchString(raw) {
		return true
	}

	return false
}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
