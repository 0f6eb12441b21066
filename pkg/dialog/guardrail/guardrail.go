// Package guardrail strips fulfillment claims the assistant is not allowed
// to make (sending emails, tracking codes, payment QR codes) from outbound
// replies before they reach the user.
package guardrail

import (
	"regexp"
	"strings"
)

// forbiddenClaims matches individual claims that read as hallucinated
// fulfillment: email delivery, shipment tracking, payment codes, debits.
var forbiddenClaims = regexp.MustCompile(`(?i)(` +
	`\be-?mail\b|` +
	`\btracking\b|` +
	`\btracking\s+(code|number)\b|` +
	`\bqr\s*code\b|` +
	`\bpix\s+code\b|` +
	`\bbarcode\b|\bbar\s+code\b|` +
	`\bwill\s+be\s+(debited|charged)\b|` +
	`\b(shipped|dispatched|delivered|out\s+for\s+delivery|on\s+its\s+way)\b` +
	`)`)

// forbiddenLines matches whole sentences that commonly show up as inventions.
var forbiddenLines = regexp.MustCompile(`(?i)(` +
	`you\s+will\s+receive\s+an?\s+e-?mail|` +
	`tracking\s+(code|number)|` +
	`pix\s+code|` +
	`qr\s*code|` +
	`barcode|bar\s+code|` +
	`order\s+(has\s+been|was)\s+shipped|` +
	`order\s+(has\s+been|was)\s+delivered` +
	`)`)

// SafeNote is appended whenever a reply had to be sanitized, so the user
// knows exactly what the chat can and cannot do.
const SafeNote = "Note: I **don't send emails**, **don't generate tracking codes** and **don't create QR/PIX payment codes** in this chat. " +
	"I only put the quote/order together and hand it to an agent to finalize."

const emptiedFallback = "Sure! I can put your quote/order together right here and hand it to an agent to finalize."

// Apply removes every line containing a forbidden claim and appends SafeNote
// exactly once. It reports whether the text was altered. Applying it twice
// yields the same result.
func Apply(text string) (string, bool) {
	if text == "" {
		return text, false
	}

	original := text

	if forbiddenClaims.MatchString(text) || forbiddenLines.MatchString(text) {
		var kept []string
		for _, ln := range strings.Split(text, "\n") {
			if forbiddenLines.MatchString(ln) || forbiddenClaims.MatchString(ln) {
				continue
			}
			kept = append(kept, ln)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))

		if text == "" {
			text = emptiedFallback
		}

		if !strings.Contains(strings.ToLower(text), strings.ToLower(SafeNote)) {
			text = strings.TrimRight(text, " \t\n") + "\n\n" + SafeNote
		}
	}

	return text, text != original
}
