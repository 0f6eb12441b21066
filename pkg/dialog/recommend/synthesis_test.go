package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

var catalogItems = []*entity.Product{
	{Name: "Cement CP II 50kg", Unit: "bag 50kg", UnitPrice: 28.9},
}

func TestFormatWithoutRecommendation(t *testing.T) {
	s := NewSynthesizer(nil)
	out := s.Format(context.Background(), nil, catalogItems, nil)
	assert.Contains(t, out, "Here are the best options")
	assert.Contains(t, out, "Cement CP II 50kg")
	assert.Contains(t, out, "Do any of these work for your job?")
}

func TestFormatUsesRuleReasoningWithoutProvider(t *testing.T) {
	s := NewSynthesizer(nil)
	rec := &Recommendation{
		Reasoning: "For plaster work, CP II is the best choice.",
		Options:   []Option{{Name: "CP II", Why: "good workability, smooth finish"}},
	}
	out := s.Format(context.Background(), rec, catalogItems, map[string]string{
		"product": "cement", "application": "plaster",
	})
	assert.Contains(t, out, "For plaster work, CP II is the best choice.")
	assert.Contains(t, out, "**CP II** - good workability, smooth finish")
	assert.Contains(t, out, "1) Cement CP II 50kg")
	assert.Contains(t, out, "Do any of these options work for your job?")
}

func TestFormatSynthesizesWhenContextSuffices(t *testing.T) {
	p := &fakeProvider{reply: "CP II balances strength and cost for indoor slabs."}
	s := NewSynthesizer(p)
	rec := &Recommendation{Reasoning: "table text"}

	out := s.Format(context.Background(), rec, catalogItems, map[string]string{
		"product":     "cement",
		"application": "slab",
		"environment": "interior",
	})

	assert.Contains(t, out, "CP II balances strength and cost for indoor slabs.")
	assert.NotContains(t, out, "table text")
	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "application=slab")
	assert.Contains(t, p.prompts[0], "environment=interior")
}

func TestFormatSkipsLLMWithInsufficientContext(t *testing.T) {
	p := &fakeProvider{reply: "should never be used"}
	s := NewSynthesizer(p)
	rec := &Recommendation{Reasoning: "table text"}

	// cement without environment fails the gate even though a caller
	// handed us a provider
	out := s.Format(context.Background(), rec, catalogItems, map[string]string{
		"product":     "cement",
		"application": "slab",
	})

	assert.Contains(t, out, "table text")
	assert.Empty(t, p.prompts)
}

func TestFormatDegradesOnProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	s := NewSynthesizer(p)
	rec := &Recommendation{Reasoning: "table text"}

	out := s.Format(context.Background(), rec, catalogItems, map[string]string{
		"product":     "cement",
		"application": "foundation",
	})

	assert.Contains(t, out, "table text")
}

func TestSynthesizePromptOmitsEmptyFields(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	s := NewSynthesizer(p)

	s.synthesize(context.Background(), map[string]string{
		"product":     "cement",
		"application": "foundation",
		"exposure":    "",
	})

	require.Len(t, p.prompts, 1)
	assert.False(t, strings.Contains(p.prompts[0], "exposure"), "empty fields must not reach the prompt")
}
