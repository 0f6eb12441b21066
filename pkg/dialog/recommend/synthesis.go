package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/search"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/investigation"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"
)

type Synthesizer struct {
	provider llm.Provider
}

func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Format builds the recommendation reply: reasoning (LLM-written when the
// context gate allows, the rule table's text otherwise), per-option "why"
// lines, the catalog items, and a no-pressure closing question.
func (s *Synthesizer) Format(ctx context.Context, rec *Recommendation, products []*entity.Product, collected map[string]string) string {
	if rec == nil {
		return fmt.Sprintf(
			"Here are the best options:\n\n%s\n\nDo any of these work for your job?",
			search.FormatOptions(products),
		)
	}

	reasoning := rec.Reasoning
	// The gate is re-checked here so no call path reaches the LLM with
	// insufficient context, whatever the caller believed.
	if s.provider != nil && collected != nil && investigation.CanAnswer(collected["product"], collected) {
		if synthesized := s.synthesize(ctx, collected); synthesized != "" {
			reasoning = synthesized
		}
	}

	var b strings.Builder
	b.WriteString(reasoning)
	b.WriteString("\n\n")
	for _, opt := range rec.Options {
		fmt.Fprintf(&b, "**%s** - %s\n", opt.Name, opt.Why)
	}
	b.WriteString("\n")
	b.WriteString(search.FormatOptions(products))
	b.WriteString("\n\nDo any of these options work for your job?")
	return b.String()
}

// synthesize asks the LLM for a short technical explanation grounded on the
// collected context only. Any failure degrades to the rule table's text.
func (s *Synthesizer) synthesize(ctx context.Context, collected map[string]string) string {
	var b strings.Builder
	b.WriteString("<system>\n")
	b.WriteString("You are a building-materials sales advisor. Write 2-3 short sentences explaining which product characteristics matter for this job.\n")
	b.WriteString("Use ONLY the facts below. Never invent stock, prices, delivery or brands. No greetings, no closing question.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<job_context>\n")
	keys := make([]string, 0, len(collected))
	for k := range collected {
		if collected[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, collected[k])
	}
	b.WriteString("</job_context>")

	out, err := s.provider.Generate(ctx, b.String(), llm.WithTemperature(0.2), llm.WithMaxTokens(220))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
