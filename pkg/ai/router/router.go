// Package router classifies an inbound message into a coarse intent and
// next action by asking the LLM, with a strict fail-closed contract: any
// transport failure, malformed payload or schema violation yields nil and
// the caller falls back to the rule-based path.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// Intent constants
const (
	IntentBrowseCatalog     = "BROWSE_CATALOG"
	IntentTechnicalQuestion = "TECHNICAL_QUESTION"
	IntentCheckout          = "CHECKOUT"
	IntentSmallTalk         = "SMALL_TALK"
	IntentUnknown           = "UNKNOWN"
)

// Action constants
const (
	ActionShowCatalog           = "SHOW_CATALOG"
	ActionAnswerWithRAG         = "ANSWER_WITH_RAG"
	ActionHandoffCheckout       = "HANDOFF_CHECKOUT"
	ActionAskClarifyingQuestion = "ASK_CLARIFYING_QUESTION"
	ActionNone                  = "NONE"
)

var validIntents = map[string]bool{
	IntentBrowseCatalog:     true,
	IntentTechnicalQuestion: true,
	IntentCheckout:          true,
	IntentSmallTalk:         true,
	IntentUnknown:           true,
}

var validActions = map[string]bool{
	ActionShowCatalog:           true,
	ActionAnswerWithRAG:         true,
	ActionHandoffCheckout:       true,
	ActionAskClarifyingQuestion: true,
	ActionNone:                  true,
}

// Decision is a validated router verdict.
type Decision struct {
	Intent             string                 `json:"intent"`
	ProductQuery       string                 `json:"product_query"`
	CategoryHint       string                 `json:"category_hint"`
	Constraints        map[string]interface{} `json:"constraints"`
	Action             string                 `json:"action"`
	ClarifyingQuestion string                 `json:"clarifying_question"`
	Confidence         float64                `json:"confidence"`
}

type Router struct {
	provider  llm.Provider
	threshold float64
	hardBlock float64
}

// NewRouter wires the LLM provider and the two confidence thresholds:
// decisions below threshold only get to ask their own clarifying question;
// decisions below hardBlock are discarded entirely.
func NewRouter(provider llm.Provider, threshold, hardBlock float64) *Router {
	return &Router{
		provider:  provider,
		threshold: threshold,
		hardBlock: hardBlock,
	}
}

// RouteIntent classifies the message given a compact flags-only state
// summary. Returns nil on any failure; the caller must treat nil as "use
// the rule-based path".
func (r *Router) RouteIntent(ctx context.Context, message, stateSummary string) *Decision {
	prompt := r.buildPrompt(message, stateSummary)

	response, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil
	}
	return r.parseDecision(response)
}

// Accepts reports whether the decision clears both confidence thresholds.
func (r *Router) Accepts(d *Decision) bool {
	if d == nil {
		return false
	}
	return d.Confidence >= r.hardBlock && d.Confidence >= r.threshold
}

// AboveHardBlock reports whether the decision clears the hard block, below
// which it is discarded even for a clarifying question.
func (r *Router) AboveHardBlock(d *Decision) bool {
	return d != nil && d.Confidence >= r.hardBlock
}

// FlowStateBlocksRouting reports whether a rule-based flow already owns the
// conversation. The router is never consulted mid-flow; deterministic flows
// always win.
func FlowStateBlocksRouting(st map[string]interface{}, message string) bool {
	if state.Bool(st, state.KeyCheckoutMode) ||
		state.Bool(st, state.KeyAskingForMore) ||
		state.Bool(st, state.KeyAwaitingQty) ||
		state.Bool(st, state.KeyAwaitingRemoveChoice) ||
		state.Bool(st, state.KeyAwaitingRemoveQty) ||
		state.Bool(st, state.KeyAwaitingUsageContext) ||
		state.Bool(st, state.KeyConsultiveInvestigation) {
		return true
	}
	if suggestions, ok := st[state.KeyLastSuggestions].([]interface{}); ok && len(suggestions) > 0 {
		return true
	}

	t := textnorm.Norm(message)
	for _, kw := range []string{"finalize", "finish", "checkout", "pay"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func (r *Router) buildPrompt(message, stateSummary string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent analyzer for a building-materials store assistant.\n")
	prompt.WriteString("Your ONLY job is to classify what the customer wants. You do NOT answer.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<session_state>\n")
	if stateSummary != "" {
		prompt.WriteString(stateSummary)
		prompt.WriteString("\n")
	} else {
		prompt.WriteString("No active flow.\n")
	}
	prompt.WriteString("</session_state>\n\n")

	prompt.WriteString("<customer_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</customer_message>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("BROWSE_CATALOG: customer wants to see or buy products (action SHOW_CATALOG)\n")
	prompt.WriteString("TECHNICAL_QUESTION: customer asks which product suits a job, or how to use one (action ANSWER_WITH_RAG)\n")
	prompt.WriteString("CHECKOUT: customer wants to close the order (action HANDOFF_CHECKOUT)\n")
	prompt.WriteString("SMALL_TALK: greetings and chit-chat with no product content (action NONE)\n")
	prompt.WriteString("UNKNOWN: cannot tell (action ASK_CLARIFYING_QUESTION, and fill clarifying_question)\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"BROWSE_CATALOG|TECHNICAL_QUESTION|CHECKOUT|SMALL_TALK|UNKNOWN\",\n")
	prompt.WriteString("  \"product_query\": \"raw product words, or empty\",\n")
	prompt.WriteString("  \"category_hint\": \"cement|paint|sand|gravel|mortar|other, or empty\",\n")
	prompt.WriteString("  \"constraints\": {},\n")
	prompt.WriteString("  \"action\": \"SHOW_CATALOG|ANSWER_WITH_RAG|HANDOFF_CHECKOUT|ASK_CLARIFYING_QUESTION|NONE\",\n")
	prompt.WriteString("  \"clarifying_question\": \"only for ASK_CLARIFYING_QUESTION\",\n")
	prompt.WriteString("  \"confidence\": 0.95\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (r *Router) parseDecision(response string) *Decision {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil
	}

	var d Decision
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil
	}

	d.Intent = strings.ToUpper(strings.TrimSpace(d.Intent))
	d.Action = strings.ToUpper(strings.TrimSpace(d.Action))

	// A payload outside the allow-lists is never trusted, whatever the
	// confidence claims.
	if !validIntents[d.Intent] || !validActions[d.Action] {
		return nil
	}

	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}

	return &d
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

// SummarizeState renders the compact flags-only summary the router and
// planner receive. Only control flags go to the model, never customer data.
func SummarizeState(st map[string]interface{}) string {
	var b strings.Builder
	flag := func(name, key string) {
		fmt.Fprintf(&b, "%s=%t\n", name, state.Bool(st, key))
	}
	flag("checkout_mode", state.KeyCheckoutMode)
	flag("awaiting_usage_context", state.KeyAwaitingUsageContext)
	flag("consultive_investigation", state.KeyConsultiveInvestigation)
	flag("recommendation_shown", state.KeyRecommendationShown)
	if hint := state.Str(st, state.KeyConsultiveProductHint); hint != "" {
		fmt.Fprintf(&b, "product_hint=%s\n", hint)
	}
	return strings.TrimRight(b.String(), "\n")
}
