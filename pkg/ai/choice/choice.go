// Package choice interprets natural-language option selections ("yes, the
// second one") against a displayed numbered list, used when the numeric
// fast path fails.
package choice

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"
)

type Interpreter struct {
	provider llm.Provider
}

func NewInterpreter(provider llm.Provider) *Interpreter {
	return &Interpreter{provider: provider}
}

// Interpret returns the 1-based index of the option the customer picked, or
// 0 when no clear choice was identified or the model call failed.
func (i *Interpreter) Interpret(ctx context.Context, message string, optionNames []string) int {
	if i == nil || i.provider == nil || message == "" || len(optionNames) == 0 {
		return 0
	}

	var prompt strings.Builder
	prompt.WriteString("<system>\n")
	prompt.WriteString("You interpret product choices against a displayed catalog list.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<displayed_options>\n")
	for idx, name := range optionNames {
		prompt.WriteString(fmt.Sprintf("%d) %s\n", idx+1, name))
	}
	prompt.WriteString("</displayed_options>\n\n")

	prompt.WriteString("<customer_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</customer_message>\n\n")

	prompt.WriteString("The customer may use a plain number (\"2\", \"the 2\"), an ordinal\n")
	prompt.WriteString("(\"first\", \"second\"), a demonstrative (\"that one\"), or extra words\n")
	prompt.WriteString("(\"yes, the 2\", \"the first one works\").\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Answer with ONLY the option number (1, 2, 3...) or NONE when no clear choice exists.\n")
	prompt.WriteString("</output_format>\n")

	response, err := i.provider.Generate(ctx, prompt.String(), llm.WithTemperature(0.0), llm.WithMaxTokens(8))
	if err != nil {
		return 0
	}

	answer := strings.TrimSpace(response)
	if strings.EqualFold(answer, "NONE") {
		return 0
	}

	// tolerate answers like "2)" or "option 2"
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, answer)
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > len(optionNames) {
		return 0
	}
	return n
}
