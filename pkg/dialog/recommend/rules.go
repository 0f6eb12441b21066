// Package recommend maps collected technical context to product
// recommendations: a static rule table provides the grounding, the LLM may
// rewrite the reasoning when (and only when) the minimum-context gate
// passes.
package recommend

import (
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// Option is one recommended product with the reason it fits.
type Option struct {
	Name string
	Why  string
}

// Recommendation is the rule table's verdict for one context.
type Recommendation struct {
	Products  []string
	Reasoning string
	Options   []Option
}

// ruleKey matches collected context. Empty fields match anything.
type ruleKey struct {
	Application string
	Environment string
	Exposure    string
	LoadType    string
	Surface     string
	Grain       string
	Size        string
}

type rule struct {
	key ruleKey
	rec Recommendation
}

// rules holds the per-category technical table. Order matters: the first
// exact match wins, then the first application-only match.
var rules = map[string][]rule{
	"cement": {
		{
			key: ruleKey{Application: "slab", Environment: "exterior", Exposure: "exposed", LoadType: "residential"},
			rec: Recommendation{
				Products:  []string{"cp iii", "cp iv"},
				Reasoning: "For an exposed exterior slab in a residential job, you want cement with sulfate and moisture resistance.",
				Options: []Option{
					{Name: "CP III", Why: "sulfate resistant, made for aggressive environments"},
					{Name: "CP IV", Why: "high durability, great under continuous exposure"},
				},
			},
		},
		{
			key: ruleKey{Application: "slab", Environment: "interior", LoadType: "residential"},
			rec: Recommendation{
				Products:  []string{"cp ii", "cp iii"},
				Reasoning: "For an interior residential slab, both CP II and CP III do the job well.",
				Options: []Option{
					{Name: "CP II", Why: "good structural strength, more economical"},
					{Name: "CP III", Why: "extra strength, faster set"},
				},
			},
		},
		{
			key: ruleKey{Application: "slab", Environment: "exterior", Exposure: "exposed", LoadType: "heavy"},
			rec: Recommendation{
				Products:  []string{"cp iii", "cp iv"},
				Reasoning: "For a heavy-load slab in an exterior area, use high-strength cement.",
				Options: []Option{
					{Name: "CP III", Why: "sulfate resistant with good mechanical strength"},
					{Name: "CP IV", Why: "highest strength, made for heavy loads"},
				},
			},
		},
		{
			key: ruleKey{Application: "foundation"},
			rec: Recommendation{
				Products:  []string{"cp iii", "cp iv"},
				Reasoning: "For foundations, the right pick is cement that resists soil sulfates.",
				Options: []Option{
					{Name: "CP III", Why: "sulfate resistance, made for foundations"},
					{Name: "CP IV", Why: "maximum durability and chemical resistance"},
				},
			},
		},
		{
			key: ruleKey{Application: "plaster"},
			rec: Recommendation{
				Products:  []string{"cp ii"},
				Reasoning: "For plaster work, CP II is the best choice.",
				Options: []Option{
					{Name: "CP II", Why: "good workability, smooth finish"},
				},
			},
		},
		{
			key: ruleKey{Application: "floor", Environment: "interior", LoadType: "residential"},
			rec: Recommendation{
				Products:  []string{"cp ii"},
				Reasoning: "For an interior residential subfloor, CP II works well.",
				Options: []Option{
					{Name: "CP II", Why: "good strength, best value"},
				},
			},
		},
		{
			key: ruleKey{Application: "floor", Environment: "exterior"},
			rec: Recommendation{
				Products:  []string{"cp iii"},
				Reasoning: "For an exterior floor, use CP III for extra resistance.",
				Options: []Option{
					{Name: "CP III", Why: "holds up well to weather, durable"},
				},
			},
		},
	},
	"paint": {
		{
			key: ruleKey{Surface: "wall", Environment: "interior"},
			rec: Recommendation{
				Products:  []string{"latex", "acrylic"},
				Reasoning: "For interior walls, latex and acrylic paints are ideal.",
				Options: []Option{
					{Name: "Latex", Why: "washable, great coverage"},
					{Name: "Acrylic", Why: "more resistant, better finish"},
				},
			},
		},
		{
			key: ruleKey{Surface: "wall", Environment: "exterior"},
			rec: Recommendation{
				Products:  []string{"acrylic", "texture"},
				Reasoning: "For exterior walls, prefer weather-resistant paints.",
				Options: []Option{
					{Name: "Acrylic", Why: "resists rain and sun"},
					{Name: "Texture", Why: "extra protection, hides imperfections"},
				},
			},
		},
		{
			key: ruleKey{Surface: "wood"},
			rec: Recommendation{
				Products:  []string{"enamel", "varnish"},
				Reasoning: "For wood, use enamel or varnish for protection.",
				Options: []Option{
					{Name: "Enamel", Why: "full protection, many colors"},
					{Name: "Varnish", Why: "keeps the natural look of the wood"},
				},
			},
		},
		{
			key: ruleKey{Surface: "metal"},
			rec: Recommendation{
				Products:  []string{"enamel", "primer"},
				Reasoning: "For metal, use synthetic enamel over an anti-corrosive primer.",
				Options: []Option{
					{Name: "Synthetic enamel", Why: "protection plus finish"},
					{Name: "Anti-corrosive primer", Why: "base coat before the paint"},
				},
			},
		},
	},
	"sand": {
		{
			key: ruleKey{Application: "plaster", Grain: "fine"},
			rec: Recommendation{
				Products:  []string{"fine sand"},
				Reasoning: "For plaster with a fine finish, use fine sand.",
				Options: []Option{
					{Name: "Fine sand", Why: "smooth finish, made for plaster"},
				},
			},
		},
		{
			key: ruleKey{Application: "plaster", Grain: "medium"},
			rec: Recommendation{
				Products:  []string{"medium sand"},
				Reasoning: "For common plaster, medium sand works well.",
				Options: []Option{
					{Name: "Medium sand", Why: "good workability, more economical"},
				},
			},
		},
		{
			key: ruleKey{Application: "laying"},
			rec: Recommendation{
				Products:  []string{"medium sand"},
				Reasoning: "For laying brick or block, medium sand is the pick.",
				Options: []Option{
					{Name: "Medium sand", Why: "binds well, firm laying"},
				},
			},
		},
		{
			key: ruleKey{Application: "concrete"},
			rec: Recommendation{
				Products:  []string{"medium sand", "coarse sand"},
				Reasoning: "For concrete, medium or coarse sand both work well.",
				Options: []Option{
					{Name: "Medium sand", Why: "the standard for concrete"},
					{Name: "Coarse sand", Why: "stronger concrete"},
				},
			},
		},
	},
	"gravel": {
		{
			key: ruleKey{Application: "concrete", Size: "1"},
			rec: Recommendation{
				Products:  []string{"gravel 1"},
				Reasoning: "For structural concrete, gravel 1 is the most used.",
				Options: []Option{
					{Name: "Gravel 1", Why: "the concrete standard, compacts well"},
				},
			},
		},
		{
			key: ruleKey{Application: "concrete", Size: "2"},
			rec: Recommendation{
				Products:  []string{"gravel 2"},
				Reasoning: "For concrete with larger sections, gravel 2 works.",
				Options: []Option{
					{Name: "Gravel 2", Why: "larger stones, saves cement"},
				},
			},
		},
		{
			key: ruleKey{Application: "drainage"},
			rec: Recommendation{
				Products:  []string{"gravel 3", "gravel 4"},
				Reasoning: "For drainage, use the larger gravels (3 or 4).",
				Options: []Option{
					{Name: "Gravel 3", Why: "good drainage, space between stones"},
					{Name: "Gravel 4", Why: "maximum drainage, large stones"},
				},
			},
		},
	},
}

// Lookup finds the recommendation for the collected context: first exact
// rule match, then a partial match on application only.
func Lookup(context map[string]string) *Recommendation {
	product := textnorm.Norm(context["product"])
	normalized := map[string]string{}
	for k, v := range context {
		normalized[k] = textnorm.Norm(v)
	}

	for category, categoryRules := range rules {
		if !strings.Contains(product, category) {
			continue
		}

		for _, r := range categoryRules {
			if matchesRule(r.key, normalized) {
				rec := r.rec
				return &rec
			}
		}

		// fallback: partial match by application
		for _, r := range categoryRules {
			if r.key.Application != "" && strings.Contains(normalized["application"], r.key.Application) {
				rec := r.rec
				return &rec
			}
		}
	}
	return nil
}

func matchesRule(key ruleKey, ctx map[string]string) bool {
	match := func(want, have string) bool {
		return want == "" || strings.Contains(have, want)
	}
	return match(key.Application, ctx["application"]) &&
		match(key.Environment, ctx["environment"]) &&
		match(key.Exposure, ctx["exposure"]) &&
		match(key.LoadType, ctx["load_type"]) &&
		match(key.Surface, ctx["surface"]) &&
		match(key.Grain, ctx["grain"]) &&
		match(key.Size, ctx["size"])
}
