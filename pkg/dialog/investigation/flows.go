// Package investigation runs the per-category slot-filling sequences that
// collect technical context ("what's the job, interior or exterior, covered
// or exposed...") before any recommendation is made.
//
// Example flow:
//
//	User: "I want cement"
//	Bot:  "What's the job?"
//	User: "a slab"
//	Bot:  "Is it an interior or exterior area?"
//	User: "exterior"
//	Bot:  "Covered, or exposed to rain and sun?"
//	User: "exposed"
//	Bot:  "Residential use or heavy load?"
//	User: "residential"
//	Bot:  [technical recommendation with reasoning + catalog items]
package investigation

import (
	"fmt"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// Step is one question in a category's investigation sequence.
type Step struct {
	Field    string   // state key the answer lands in
	Question string   // %s is replaced with the stated application
	Options  []string // recognized answer tokens, normalized
	// SkipIf skips the step given the state collected so far.
	SkipIf func(st map[string]interface{}) bool
}

// Flows maps a product category to its ordered investigation steps.
// Category lookup is substring-based over the normalized product hint.
var Flows = map[string][]Step{
	"cement": {
		{
			Field:    state.KeyConsultiveEnvironment,
			Question: "Got it, that's for %s. Is it an **interior** or **exterior** area?",
			Options:  []string{"interior", "exterior", "inside", "outside", "indoor", "outdoor"},
		},
		{
			Field:    state.KeyConsultiveExposure,
			Question: "Right. Is the spot **covered**, or **exposed** to rain and sun?",
			Options:  []string{"covered", "exposed"},
			SkipIf: func(st map[string]interface{}) bool {
				env := textnorm.Norm(state.Str(st, state.KeyConsultiveEnvironment))
				return env == "interior" || env == "inside" || env == "indoor"
			},
		},
		{
			Field:    state.KeyConsultiveLoadType,
			Question: "And is it **residential** use, or **heavy load** (say a garage or commercial floor)?",
			Options:  []string{"residential", "heavy load", "heavy", "commercial", "garage"},
		},
	},
	"paint": {
		{
			Field:    state.KeyConsultiveSurface,
			Question: "Got it. Are you painting a **wall**, **wood** or **metal**?",
			Options:  []string{"wall", "wood", "metal", "iron"},
		},
		{
			Field:    state.KeyConsultiveEnvironment,
			Question: "Is it an **interior** or **exterior** area?",
			Options:  []string{"interior", "exterior", "inside", "outside", "indoor", "outdoor"},
		},
	},
	"sand": {
		{
			Field:    state.KeyConsultiveGrain,
			Question: "Got it, that's for %s. Do you need a **fine** finish, or is **medium/coarse** fine?",
			Options:  []string{"fine", "medium", "coarse"},
		},
	},
	"gravel": {
		{
			Field:    state.KeyConsultiveSize,
			Question: "Ok, that's for %s. Which size do you need? **Gravel 1** (small), **2** (medium) or **3/4** (large)?",
			Options:  []string{"1", "2", "3", "4", "small", "medium", "large"},
		},
	},
	"mortar": {
		{
			Field:    state.KeyConsultiveMortarType,
			Question: "Got it, that's for %s. Is it for **laying**, **plaster** or **adhesive** work?",
			Options:  []string{"laying", "plaster", "adhesive", "tile adhesive"},
		},
	},
}

// FlowFor returns the investigation steps for a product hint, or nil when
// the product has no defined flow.
func FlowFor(productHint string) (string, []Step) {
	ph := textnorm.Norm(productHint)
	for category, flow := range Flows {
		if strings.Contains(ph, category) {
			return category, flow
		}
	}
	return "", nil
}

// StartPatch returns the first question of the flow and the state patch
// that opens the investigation. ok is false when the product has no flow.
func StartPatch(productHint, application string) (question string, patch map[string]interface{}, ok bool) {
	_, flow := FlowFor(productHint)
	if flow == nil {
		return "", nil, false
	}

	patch = map[string]interface{}{
		state.KeyConsultiveInvestigation: true,
		state.KeyConsultiveApplication:   application,
		state.KeyConsultiveProductHint:   productHint,
		state.KeyConsultiveStep:          0,
	}
	return renderQuestion(flow[0], application), patch, true
}

// Outcome is the result of processing one investigation answer.
type Outcome struct {
	// Question is the next question to ask; empty when Done.
	Question string
	// Done is true once every remaining step is answered or skipped.
	Done bool
	// Patch must be applied to session state by the caller.
	Patch map[string]interface{}
	// Abort is true when the state was inconsistent and the
	// investigation was closed without a recommendation.
	Abort bool
}

// ContinuePatch consumes the user's answer to the current step and advances,
// skipping steps whose predicate holds. State mutations are returned as a
// patch; the caller persists them.
func ContinuePatch(st map[string]interface{}, message string) *Outcome {
	if !state.Bool(st, state.KeyConsultiveInvestigation) {
		return nil
	}

	productHint := state.Str(st, state.KeyConsultiveProductHint)
	application := state.Str(st, state.KeyConsultiveApplication)
	currentStep := state.Int(st, state.KeyConsultiveStep)

	if productHint == "" {
		return &Outcome{
			Abort: true,
			Patch: map[string]interface{}{state.KeyConsultiveInvestigation: false},
		}
	}

	_, flow := FlowFor(productHint)
	if flow == nil {
		return &Outcome{
			Abort: true,
			Patch: map[string]interface{}{state.KeyConsultiveInvestigation: false},
		}
	}

	patch := map[string]interface{}{}

	if currentStep < len(flow) {
		step := flow[currentStep]
		if answer := ExtractAnswer(message, step.Options); answer != "" {
			patch[step.Field] = answer
			st[step.Field] = answer
		}
	}

	nextStep := currentStep + 1
	for nextStep < len(flow) {
		step := flow[nextStep]
		if step.SkipIf != nil && step.SkipIf(st) {
			nextStep++
			continue
		}
		patch[state.KeyConsultiveStep] = nextStep
		return &Outcome{
			Question: renderQuestion(step, application),
			Patch:    patch,
		}
	}

	patch[state.KeyConsultiveStep] = nextStep
	patch[state.KeyRecommendationShown] = true
	return &Outcome{Done: true, Patch: patch}
}

// ExtractAnswer picks the first recognized option present in the message.
// When nothing matches it returns the normalized raw text, so the engine
// stores something and never re-asks the identical question forever.
func ExtractAnswer(message string, options []string) string {
	t := textnorm.Norm(message)

	// strip connective words
	for _, w := range []string{" for ", " to ", " in ", " on ", " and ", " or "} {
		t = strings.ReplaceAll(t, w, " ")
	}
	t = strings.TrimSpace(t)

	for _, option := range options {
		if strings.Contains(t, option) {
			return option
		}
	}
	return t
}

// CollectedContext assembles the investigation answers for the gate and the
// recommendation synthesis.
func CollectedContext(st map[string]interface{}) map[string]string {
	return map[string]string{
		"product":     state.Str(st, state.KeyConsultiveProductHint),
		"application": state.Str(st, state.KeyConsultiveApplication),
		"environment": state.Str(st, state.KeyConsultiveEnvironment),
		"exposure":    state.Str(st, state.KeyConsultiveExposure),
		"load_type":   state.Str(st, state.KeyConsultiveLoadType),
		"surface":     state.Str(st, state.KeyConsultiveSurface),
		"grain":       state.Str(st, state.KeyConsultiveGrain),
		"size":        state.Str(st, state.KeyConsultiveSize),
	}
}

func renderQuestion(step Step, application string) string {
	if strings.Contains(step.Question, "%s") {
		return fmt.Sprintf(step.Question, application)
	}
	return step.Question
}
