package investigation

import (
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// genericProduct describes a catalog category too broad to quote directly:
// the assistant asks what the job is before showing anything.
type genericProduct struct {
	Question string
	// Contexts maps a known application to the grade keywords that would
	// make the request non-generic ("cement cp ii" needs no question).
	Contexts map[string][]string
}

var genericProducts = map[string]genericProduct{
	"cement": {
		Question: "Sure 👍 What's the job? (e.g. slab, plaster, floor, foundation...)",
		Contexts: map[string][]string{
			"slab":       {"cp ii", "cp iii", "structural"},
			"foundation": {"cp iii", "cp iv"},
			"plaster":    {"cp ii"},
			"floor":      {"cp ii"},
			"exterior":   {"cp iii", "cp iv"},
		},
	},
	"paint": {
		Question: "Got it 👍 What are you painting? (e.g. interior wall, exterior, wood, metal...)",
		Contexts: map[string][]string{
			"interior wall": {"latex", "acrylic"},
			"exterior wall": {"acrylic", "texture"},
			"wood":          {"enamel", "varnish"},
			"metal":         {"enamel", "primer"},
		},
	},
	"sand": {
		Question: "Right 👍 What is it for? (e.g. plaster, laying, concrete...)",
		Contexts: map[string][]string{
			"plaster":  {"fine sand", "medium sand"},
			"laying":   {"medium sand"},
			"concrete": {"medium sand", "coarse sand"},
		},
	},
	"gravel": {
		Question: "Ok 👍 What's the application? (e.g. concrete, drainage, paving...)",
		Contexts: map[string][]string{
			"concrete": {"gravel 1", "gravel 2"},
			"drainage": {"gravel 3", "gravel 4"},
			"paving":   {"gravel 2", "gravel 3"},
		},
	},
	"mortar": {
		Question: "Ok 👍 What's the use? (e.g. laying, plaster, tile adhesive...)",
		Contexts: map[string][]string{
			"laying":   {"mortar ac"},
			"plaster":  {"mortar"},
			"adhesive": {"tile adhesive"},
		},
	},
}

// IsGenericProduct reports whether a hint names a category that needs a
// usage-context question. A hint that already carries a specific spec
// keyword ("cement cp ii") is not generic.
func IsGenericProduct(hint string) bool {
	if hint == "" {
		return false
	}
	h := textnorm.Norm(hint)

	for key, gp := range genericProducts {
		if !strings.Contains(h, key) {
			continue
		}
		for _, keywords := range gp.Contexts {
			for _, kw := range keywords {
				if kw != key && strings.Contains(h, kw) {
					return false
				}
			}
		}
		return true
	}
	return false
}

// UsageQuestion returns the category's usage-context question for a hint.
func UsageQuestion(hint string) string {
	h := textnorm.Norm(hint)
	for key, gp := range genericProducts {
		if strings.Contains(h, key) {
			return gp.Question
		}
	}
	return "Sure 👍 What do you need it for?"
}

// ExtractUsageContext pulls the stated application out of the customer's
// answer, falling back to the cleaned raw text so the question is never
// asked twice for the same message.
func ExtractUsageContext(message string) string {
	t := textnorm.Norm(message)
	for _, w := range []string{" for ", " to ", " in ", " on "} {
		t = strings.ReplaceAll(t, w, " ")
	}
	t = strings.TrimSpace(t)

	for _, gp := range genericProducts {
		for ctx := range gp.Contexts {
			if strings.Contains(t, ctx) {
				return ctx
			}
		}
	}
	return t
}
