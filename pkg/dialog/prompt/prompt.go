// Package prompt tracks the single active question a session owes an answer
// to, plus a LIFO stack of questions parked while a tangent is resolved.
package prompt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

const (
	KindYesNo        = "yes_no"
	KindNumberChoice = "number_choice"
	KindQuantity     = "quantity"
	KindFreeText     = "free_text"
)

// ResumePrefix opens the re-asked question after an interruption is answered.
const ResumePrefix = "Getting back to where we were: "

// Pending is the one question currently awaiting an answer.
type Pending struct {
	Text         string                 `json:"text"`
	ExpectedKind string                 `json:"expected_kind"`
	MaxOption    int                    `json:"max_option,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

var yesTokens = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true,
	"okay": true, "right": true, "correct": true, "of course": true,
}

var noTokens = map[string]bool{
	"no": true, "nope": true, "nah": true, "not": true, "negative": true,
}

var quantityPattern = regexp.MustCompile(`^\d+([.,]\d+)?\s*(kg|g|l|ml|m3|m2|m|un|units?|bags?|cans?|pieces?)?$`)

// Satisfies reports whether the message answers the pending question's
// expected kind. Free-text prompts accept anything non-empty.
func Satisfies(p *Pending, message string) bool {
	if p == nil {
		return false
	}
	t := textnorm.Norm(message)
	if t == "" {
		return false
	}

	switch p.ExpectedKind {
	case KindYesNo:
		return yesTokens[t] || noTokens[t]
	case KindNumberChoice:
		n, err := strconv.Atoi(t)
		if err != nil {
			return false
		}
		if p.MaxOption > 0 {
			return n >= 1 && n <= p.MaxOption
		}
		return n >= 1
	case KindQuantity:
		return quantityPattern.MatchString(t)
	case KindFreeText:
		return true
	}
	return false
}

// IsYes reports whether a normalized message is an affirmative token.
func IsYes(message string) bool {
	return yesTokens[textnorm.Norm(message)]
}

// IsNo reports whether a normalized message is a negative token.
func IsNo(message string) bool {
	return noTokens[textnorm.Norm(message)]
}

var interrogativeOpeners = []string{
	"what", "which", "who", "where", "when", "why", "how",
	"do you", "does", "can you", "could you", "is it", "are you",
	"is there", "are there",
}

// LooksLikeInterruption reports whether a message that does not answer the
// pending question reads as a new question of its own.
func LooksLikeInterruption(message string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	t := textnorm.Norm(message)
	for _, opener := range interrogativeOpeners {
		if strings.HasPrefix(t, opener+" ") || t == opener {
			return true
		}
	}
	return false
}

// ToMap converts a Pending for storage inside the JSON session state.
func (p *Pending) ToMap() map[string]interface{} {
	if p == nil {
		return nil
	}
	m := map[string]interface{}{
		"text":          p.Text,
		"expected_kind": p.ExpectedKind,
	}
	if p.MaxOption > 0 {
		m["max_option"] = p.MaxOption
	}
	if p.Metadata != nil {
		m["metadata"] = p.Metadata
	}
	return m
}

// FromMap rebuilds a Pending from its stored form. Returns nil on anything
// that is not a prompt-shaped map.
func FromMap(raw interface{}) *Pending {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	text, _ := m["text"].(string)
	kind, _ := m["expected_kind"].(string)
	if text == "" || kind == "" {
		return nil
	}

	p := &Pending{Text: text, ExpectedKind: kind}
	switch v := m["max_option"].(type) {
	case int:
		p.MaxOption = v
	case float64:
		p.MaxOption = int(v)
	}
	if meta, ok := m["metadata"].(map[string]interface{}); ok {
		p.Metadata = meta
	}
	return p
}
