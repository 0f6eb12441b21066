// Package planner asks the LLM what the consultive investigation should do
// next: collect another context field, answer, or ask for clarification.
// Same fail-closed contract as the intent router.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"
)

const (
	ActionAskContext            = "ASK_CONTEXT"
	ActionReadyToAnswer         = "READY_TO_ANSWER"
	ActionAskClarifyingQuestion = "ASK_CLARIFYING_QUESTION"
)

var validActions = map[string]bool{
	ActionAskContext:            true,
	ActionReadyToAnswer:         true,
	ActionAskClarifyingQuestion: true,
}

// Plan is a validated planner verdict.
type Plan struct {
	MissingFields []string `json:"missing_fields"`
	NextAction    string   `json:"next_action"`
	NextQuestion  string   `json:"next_question"`
	Assumptions   []string `json:"assumptions"`
	Confidence    float64  `json:"confidence"`
}

type Planner struct {
	provider  llm.Provider
	threshold float64
	hardBlock float64
}

func NewPlanner(provider llm.Provider, threshold, hardBlock float64) *Planner {
	return &Planner{
		provider:  provider,
		threshold: threshold,
		hardBlock: hardBlock,
	}
}

// PlanNextStep decides the next consultive move. known holds the context
// fields already collected; askedFields the questions already posed, so the
// model never repeats one. Returns nil on any failure.
func (p *Planner) PlanNextStep(ctx context.Context, message, stateSummary, productHint string, known map[string]string, askedFields []string) *Plan {
	prompt := p.buildPrompt(message, stateSummary, productHint, known, askedFields)

	response, err := p.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil
	}
	return p.parsePlan(response)
}

// Accepts reports whether the plan clears both confidence thresholds.
func (p *Planner) Accepts(plan *Plan) bool {
	if plan == nil {
		return false
	}
	return plan.Confidence >= p.hardBlock && plan.Confidence >= p.threshold
}

func (p *Planner) buildPrompt(message, stateSummary, productHint string, known map[string]string, askedFields []string) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You are a sales-consultation planner for a building-materials store.\n")
	b.WriteString("Decide the single next step to recommend the right product. Do NOT answer the question yourself.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<session_state>\n")
	if stateSummary != "" {
		b.WriteString(stateSummary)
		b.WriteString("\n")
	}
	if productHint != "" {
		fmt.Fprintf(&b, "product_hint=%s\n", productHint)
	}
	b.WriteString("</session_state>\n\n")

	b.WriteString("<known_context>\n")
	if len(known) == 0 {
		b.WriteString("nothing collected yet\n")
	} else {
		keys := make([]string, 0, len(known))
		for k := range known {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%s\n", k, known[k])
		}
	}
	b.WriteString("</known_context>\n\n")

	if len(askedFields) > 0 {
		b.WriteString("<already_asked>\n")
		b.WriteString(strings.Join(askedFields, ", "))
		b.WriteString("\nNever ask about these fields again.\n")
		b.WriteString("</already_asked>\n\n")
	}

	b.WriteString("<customer_message>\n")
	b.WriteString(message)
	b.WriteString("\n</customer_message>\n\n")

	b.WriteString("<action_definitions>\n")
	b.WriteString("ASK_CONTEXT: a required field is missing; fill missing_fields (ordered, most important first) and next_question for the FIRST not-yet-asked one\n")
	b.WriteString("READY_TO_ANSWER: the minimum context for this category is collected\n")
	b.WriteString("ASK_CLARIFYING_QUESTION: the overall intent is too ambiguous to investigate\n")
	b.WriteString("</action_definitions>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("Respond with ONLY valid JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"missing_fields\": [\"application\"],\n")
	b.WriteString("  \"next_action\": \"ASK_CONTEXT|READY_TO_ANSWER|ASK_CLARIFYING_QUESTION\",\n")
	b.WriteString("  \"next_question\": \"one short question to the customer\",\n")
	b.WriteString("  \"assumptions\": [],\n")
	b.WriteString("  \"confidence\": 0.8\n")
	b.WriteString("}\n")
	b.WriteString("</output_format>")

	return b.String()
}

func (p *Planner) parsePlan(response string) *Plan {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil
	}

	var plan Plan
	if err := json.Unmarshal([]byte(jsonContent), &plan); err != nil {
		return nil
	}

	plan.NextAction = strings.ToUpper(strings.TrimSpace(plan.NextAction))
	if !validActions[plan.NextAction] {
		return nil
	}

	// ASK_CONTEXT without a question to ask is useless, discard.
	if plan.NextAction == ActionAskContext && strings.TrimSpace(plan.NextQuestion) == "" {
		return nil
	}

	if plan.Confidence < 0 {
		plan.Confidence = 0
	}
	if plan.Confidence > 1 {
		plan.Confidence = 1
	}

	return &plan
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
