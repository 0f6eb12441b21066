package search

import (
	"context"
	"sort"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

// Searcher is the slice of the product repository the staged search needs.
type Searcher interface {
	SearchAllTerms(ctx context.Context, terms []string, limit int) ([]*entity.Product, error)
	SearchAnyTerm(ctx context.Context, terms []string, limit int) ([]*entity.Product, error)
}

// Result carries the staged-search outcome. When the strict phase failed,
// UnmetMustTerms lists what could not be honored so the caller can say so
// instead of substituting silently.
type Result struct {
	Items           []*entity.Product
	ExactMatchFound bool
	UnmetMustTerms  []string
}

// stopwords never contribute to search terms.
var stopwords = map[string]bool{
	"i": true, "a": true, "an": true, "the": true, "of": true, "for": true,
	"to": true, "in": true, "on": true, "and": true, "or": true, "some": true,
	"want": true, "need": true, "buy": true, "get": true, "me": true,
	"please": true, "do": true, "you": true, "have": true, "sell": true,
}

// Terms tokenizes a normalized query, dropping stopwords.
func Terms(query string) []string {
	var out []string
	for _, w := range strings.Fields(textnorm.Norm(query)) {
		if len(w) > 1 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

type Service struct {
	searcher Searcher
	limit    int
}

func NewService(searcher Searcher) *Service {
	return &Service{searcher: searcher, limit: 6}
}

// Search runs the staged lookup:
//
//  1. strict pass — every must-term (plus the category hint) must match;
//     only exact matches are returned.
//  2. relaxed pass — candidates matching any term, ranked by should-term
//     coverage, surfacing the unmet must-terms.
//  3. generic fallback — plain keyword lookup with no constraints.
//
// Collaborator errors degrade to the next phase, never abort.
func (s *Service) Search(ctx context.Context, query string, c Constraints) Result {
	// phase 1: strict AND over must-terms
	if c.Strict {
		strictTerms := append([]string{}, c.MustTerms...)
		if c.CategoryHint != "" {
			strictTerms = append(strictTerms, c.CategoryHint)
		}
		items, err := s.searcher.SearchAllTerms(ctx, strictTerms, s.limit)
		if err == nil && len(items) > 0 {
			return Result{Items: items, ExactMatchFound: true}
		}
	}

	// phase 2: relaxed, ranked by term coverage with should-term boosts
	relaxedTerms := gatherTerms(query, c)
	if len(relaxedTerms) > 0 {
		candidates, err := s.searcher.SearchAnyTerm(ctx, relaxedTerms, s.limit*4)
		if err == nil && len(candidates) > 0 {
			ranked := rankByCoverage(candidates, c, Terms(query))
			if len(ranked) > s.limit {
				ranked = ranked[:s.limit]
			}
			return Result{Items: ranked, UnmetMustTerms: c.MustTerms}
		}
	}

	// phase 3: generic keyword fallback, no constraints
	generic := Terms(query)
	if c.CategoryHint != "" {
		generic = append(generic, c.CategoryHint)
	}
	items, err := s.searcher.SearchAnyTerm(ctx, generic, s.limit)
	if err != nil {
		return Result{UnmetMustTerms: c.MustTerms}
	}
	return Result{Items: items, UnmetMustTerms: c.MustTerms}
}

func gatherTerms(query string, c Constraints) []string {
	seen := map[string]bool{}
	var out []string
	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}
	for _, t := range c.MustTerms {
		add(t)
	}
	for _, t := range c.ShouldTerms {
		add(t)
	}
	add(c.CategoryHint)
	for _, t := range Terms(query) {
		add(t)
	}
	return out
}

// rankByCoverage orders candidates by how many terms their searchable text
// contains: must-terms weigh most, then should-terms, then plain query
// words. Stable for ties.
func rankByCoverage(candidates []*entity.Product, c Constraints, queryTerms []string) []*entity.Product {
	type scored struct {
		item  *entity.Product
		score float64
	}

	scoredItems := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		text := searchableText(item)
		var score float64
		for _, t := range c.MustTerms {
			if strings.Contains(text, t) {
				score += 4
			}
		}
		for _, t := range c.ShouldTerms {
			if strings.Contains(text, t) {
				score += 2
			}
		}
		for _, t := range queryTerms {
			if strings.Contains(text, t) {
				score++
			}
		}
		scoredItems = append(scoredItems, scored{item: item, score: score})
	}

	sort.SliceStable(scoredItems, func(i, j int) bool {
		return scoredItems[i].score > scoredItems[j].score
	})

	out := make([]*entity.Product, len(scoredItems))
	for i, s := range scoredItems {
		out[i] = s.item
	}
	return out
}

func searchableText(p *entity.Product) string {
	parts := []string{p.Name, p.Category, p.Description}
	parts = append(parts, p.Keywords...)
	return textnorm.Norm(strings.Join(parts, " "))
}
