package router

import (
	"context"
	"errors"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return f.response, f.err
}

func TestRouteIntentParsesValidDecision(t *testing.T) {
	r := NewRouter(&fakeProvider{response: `Here you go:
{"intent": "BROWSE_CATALOG", "product_query": "cement cp ii", "category_hint": "cement",
 "constraints": {}, "action": "SHOW_CATALOG", "clarifying_question": "", "confidence": 0.9}`}, 0.55, 0.35)

	d := r.RouteIntent(context.Background(), "i want cement", "")
	require.NotNil(t, d)
	assert.Equal(t, IntentBrowseCatalog, d.Intent)
	assert.Equal(t, ActionShowCatalog, d.Action)
	assert.Equal(t, "cement cp ii", d.ProductQuery)
	assert.True(t, r.Accepts(d))
}

func TestRouteIntentFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"transport error", &fakeProvider{err: errors.New("timeout")}},
		{"no json", &fakeProvider{response: "I think the customer wants cement."}},
		{"broken json", &fakeProvider{response: `{"intent": "BROWSE`}},
		{"unknown intent", &fakeProvider{response: `{"intent": "PURCHASE", "action": "SHOW_CATALOG", "confidence": 0.9}`}},
		{"unknown action", &fakeProvider{response: `{"intent": "BROWSE_CATALOG", "action": "SELL", "confidence": 0.9}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.provider, 0.55, 0.35)
			assert.Nil(t, r.RouteIntent(context.Background(), "msg", ""))
		})
	}
}

func TestRouteIntentNormalizesCasing(t *testing.T) {
	r := NewRouter(&fakeProvider{response: `{"intent": "browse_catalog", "action": "show_catalog", "confidence": 0.8}`}, 0.55, 0.35)
	d := r.RouteIntent(context.Background(), "msg", "")
	require.NotNil(t, d)
	assert.Equal(t, IntentBrowseCatalog, d.Intent)
}

func TestConfidenceClamping(t *testing.T) {
	r := NewRouter(&fakeProvider{response: `{"intent": "CHECKOUT", "action": "HANDOFF_CHECKOUT", "confidence": 3.2}`}, 0.55, 0.35)
	d := r.RouteIntent(context.Background(), "finalize", "")
	require.NotNil(t, d)
	assert.Equal(t, 1.0, d.Confidence)

	r = NewRouter(&fakeProvider{response: `{"intent": "CHECKOUT", "action": "HANDOFF_CHECKOUT", "confidence": -1}`}, 0.55, 0.35)
	d = r.RouteIntent(context.Background(), "finalize", "")
	require.NotNil(t, d)
	assert.Equal(t, 0.0, d.Confidence)
}

func TestThresholds(t *testing.T) {
	r := NewRouter(&fakeProvider{}, 0.55, 0.35)

	assert.False(t, r.Accepts(nil))
	assert.False(t, r.AboveHardBlock(nil))

	low := &Decision{Confidence: 0.2}
	assert.False(t, r.Accepts(low))
	assert.False(t, r.AboveHardBlock(low))

	mid := &Decision{Confidence: 0.45}
	assert.False(t, r.Accepts(mid))
	assert.True(t, r.AboveHardBlock(mid))

	high := &Decision{Confidence: 0.9}
	assert.True(t, r.Accepts(high))
}

func TestFlowStateBlocksRouting(t *testing.T) {
	base := state.Defaults()

	assert.False(t, FlowStateBlocksRouting(base, "i want cement"))

	for _, key := range []string{
		state.KeyCheckoutMode,
		state.KeyAskingForMore,
		state.KeyAwaitingQty,
		state.KeyAwaitingRemoveChoice,
		state.KeyAwaitingRemoveQty,
		state.KeyAwaitingUsageContext,
		state.KeyConsultiveInvestigation,
	} {
		st := state.Defaults()
		st[key] = true
		assert.True(t, FlowStateBlocksRouting(st, "anything"), key)
	}

	st := state.Defaults()
	st[state.KeyLastSuggestions] = []interface{}{map[string]interface{}{"id": "x", "name": "y"}}
	assert.True(t, FlowStateBlocksRouting(st, "2"))

	// checkout keywords bypass the router regardless of state
	assert.True(t, FlowStateBlocksRouting(base, "finalize"))
	assert.True(t, FlowStateBlocksRouting(base, "lets checkout"))
}

func TestSummarizeStateOmitsCustomerData(t *testing.T) {
	st := state.Defaults()
	st[state.KeyCheckoutMode] = true
	st[state.KeyCustomerName] = "Ann"
	st[state.KeyCustomerPhone] = "555-0100"
	st[state.KeyConsultiveProductHint] = "cement"

	summary := SummarizeState(st)
	assert.Contains(t, summary, "checkout_mode=true")
	assert.Contains(t, summary, "product_hint=cement")
	assert.NotContains(t, summary, "Ann")
	assert.NotContains(t, summary, "555")
}
