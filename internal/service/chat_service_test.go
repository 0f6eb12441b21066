package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/internal/constant"
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/knowledge"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/search"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/guardrail"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/prompt"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/recommend"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products []*entity.Product
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeProductRepo) Update(context.Context, *entity.Product) error { return nil }

func (f *fakeProductRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeProductRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Product, error) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			for _, p := range f.products {
				if p.Id == byID.ID {
					return p, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) SearchAllTerms(_ context.Context, terms []string, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		text := productText(p)
		all := true
		for _, t := range terms {
			if !strings.Contains(text, t) {
				all = false
				break
			}
		}
		if all {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SearchAnyTerm(_ context.Context, terms []string, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		text := productText(p)
		for _, t := range terms {
			if strings.Contains(text, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SearchSemantic(context.Context, pgvector.Vector, int) ([]*entity.Product, error) {
	return nil, nil
}

func productText(p *entity.Product) string {
	parts := []string{p.Name, p.Category, p.Description}
	parts = append(parts, p.Keywords...)
	return textnorm.Norm(strings.Join(parts, " "))
}

type fakeKnowledgeRepo struct {
	chunks []*entity.KnowledgeChunk
}

func (f *fakeKnowledgeRepo) Create(_ context.Context, c *entity.KnowledgeChunk) error {
	f.chunks = append(f.chunks, c)
	return nil
}

func (f *fakeKnowledgeRepo) SearchSemantic(context.Context, pgvector.Vector, int) ([]*entity.KnowledgeChunk, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepo) SearchKeyword(context.Context, []string, int) ([]*entity.KnowledgeChunk, error) {
	return f.chunks, nil
}

type fakeConversationRepo struct {
	turns []*entity.ConversationTurn
}

func (f *fakeConversationRepo) Create(_ context.Context, turn *entity.ConversationTurn) error {
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeConversationRepo) FindRecentBySession(context.Context, string, int) ([]*entity.ConversationTurn, error) {
	return f.turns, nil
}

func (f *fakeConversationRepo) lastBranch() string {
	if len(f.turns) == 0 {
		return ""
	}
	return f.turns[len(f.turns)-1].Branch
}

type chatFixture struct {
	svc      IChatService
	store    *state.Store
	cart     ICartService
	conv     *fakeConversationRepo
	products *fakeProductRepo
	chunks   *fakeKnowledgeRepo
}

func newChatFixture(products ...*entity.Product) *chatFixture {
	store := state.NewStore(newFakeStateRepo())
	prompts := prompt.NewManager(store)
	budgetRepo := newFakeBudgetRepo()
	cart := NewCartService(budgetRepo)
	checkout := NewCheckoutService(store, cart, &fakeCustomerRepo{}, &fakeOrderRepo{}, budgetRepo, nil, nopLogger{})
	productRepo := &fakeProductRepo{products: products}
	knowledgeRepo := &fakeKnowledgeRepo{}
	conv := &fakeConversationRepo{}

	svc := NewChatService(
		store, prompts, nil, nil, nil,
		search.NewService(productRepo),
		knowledge.NewService(knowledgeRepo, nil),
		recommend.NewSynthesizer(nil),
		cart, checkout, productRepo, conv, nil, nopLogger{}, nil,
	)
	return &chatFixture{svc: svc, store: store, cart: cart, conv: conv, products: productRepo, chunks: knowledgeRepo}
}

func TestChatGreeting(t *testing.T) {
	fx := newChatFixture()

	reply, needsHuman := fx.svc.HandleMessage(context.Background(), "s1", "good morning")
	assert.Contains(t, reply, "How can I help?")
	assert.False(t, needsHuman)
	assert.Equal(t, "greeting", fx.conv.lastBranch())
}

func TestChatStoreHours(t *testing.T) {
	fx := newChatFixture()

	reply, _ := fx.svc.HandleMessage(context.Background(), "s1", "what are your opening hours?")
	assert.Equal(t, constant.StoreHours, reply)
	assert.Equal(t, "hours", fx.conv.lastBranch())
}

func TestChatShowsEmptyBudget(t *testing.T) {
	fx := newChatFixture()

	reply, _ := fx.svc.HandleMessage(context.Background(), "s1", "show my budget please")
	assert.Equal(t, "Your budget is empty.", reply)
	assert.Equal(t, "cart_show", fx.conv.lastBranch())
}

func TestChatFullPurchaseFlow(t *testing.T) {
	fx := newChatFixture(cementProduct())
	ctx := context.Background()

	// free text lands on the catalog suggestion stage
	reply, needsHuman := fx.svc.HandleMessage(ctx, "s1", "i want cement cp ii")
	assert.False(t, needsHuman)
	assert.Contains(t, reply, "I found these catalog options for **cement cp ii**:")
	assert.Contains(t, reply, "1) Cement CP II 50kg — $ 28.90/bag 50kg")
	assert.Equal(t, "auto_suggest", fx.conv.lastBranch())

	// numeric pick announces the product and asks for a quantity
	reply, _ = fx.svc.HandleMessage(ctx, "s1", "1")
	assert.Contains(t, reply, "Alright - **Cement CP II 50kg**.")
	assert.Contains(t, reply, "Price: $ 28.90/bag 50kg.")
	assert.Contains(t, reply, "How many units do you want?")
	assert.Equal(t, "selection", fx.conv.lastBranch())

	// quantity answer adds the item and offers another round
	reply, _ = fx.svc.HandleMessage(ctx, "s1", "4 bags")
	assert.Contains(t, reply, "Item added to your budget.")
	assert.Contains(t, reply, "Approximate total: $ 115.60")
	assert.Contains(t, reply, "Do you want to add another product? (yes or no)")
	assert.Equal(t, "pending_qty", fx.conv.lastBranch())

	budget, err := fx.cart.OpenBudget(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, budget)
	require.Len(t, budget.Items, 1)
	assert.Equal(t, 4.0, budget.Items[0].Quantity)

	// "no" pivots into checkout and flags the handoff
	reply, needsHuman = fx.svc.HandleMessage(ctx, "s1", "no")
	assert.True(t, needsHuman)
	assert.Contains(t, reply, "Now I need a few details to finalize:")
	assert.Contains(t, reply, "**delivery** or **pickup**")
	assert.Equal(t, "more_products", fx.conv.lastBranch())

	st, _ := fx.store.Get(ctx, "s1")
	assert.True(t, state.Bool(st, state.KeyCheckoutMode))
	assert.False(t, state.Bool(st, state.KeyAskingForMore))
}

func TestChatGenericProductAsksUsageFirst(t *testing.T) {
	fx := newChatFixture(cementProduct())
	ctx := context.Background()

	reply, _ := fx.svc.HandleMessage(ctx, "s1", "i want cement")
	assert.Contains(t, reply, "What's the job?")
	assert.Equal(t, "auto_suggest", fx.conv.lastBranch())

	st, _ := fx.store.Get(ctx, "s1")
	assert.True(t, state.Bool(st, state.KeyAwaitingUsageContext))

	// the usage answer starts the technical investigation
	reply, _ = fx.svc.HandleMessage(ctx, "s1", "it is for a slab")
	assert.Contains(t, reply, "**interior** or **exterior**")
	assert.Equal(t, "usage_context", fx.conv.lastBranch())

	st, _ = fx.store.Get(ctx, "s1")
	assert.True(t, state.Bool(st, state.KeyConsultiveInvestigation))
	assert.Equal(t, "slab", state.Str(st, state.KeyConsultiveApplication))
	assert.False(t, state.Bool(st, state.KeyAwaitingUsageContext))
}

func TestChatConsultiveQuestionIsSanitized(t *testing.T) {
	fx := newChatFixture()
	fx.chunks.chunks = []*entity.KnowledgeChunk{{
		Id:       uuid.New(),
		Topic:    "cement",
		Question: "which cement is better for a slab",
		Answer:   "CP III handles weather better than CP II.\nYou will receive an email with the receipt.",
	}}

	reply, needsHuman := fx.svc.HandleMessage(context.Background(), "s1", "which is better for a slab, cp ii or cp iii?")
	assert.False(t, needsHuman)
	assert.Equal(t, "consultive_question", fx.conv.lastBranch())
	assert.Contains(t, reply, "CP III handles weather better than CP II.")
	assert.NotContains(t, reply, "receipt")
	assert.Contains(t, reply, guardrail.SafeNote)
}

func TestChatOrderExplainer(t *testing.T) {
	fx := newChatFixture()
	ctx := context.Background()
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{
		state.KeyLastOrderSummary: "Budget summary:\n\n4 x Cement CP II 50kg ($ 28.90 each) = $ 115.60",
	})

	reply, _ := fx.svc.HandleMessage(ctx, "s1", "is the budget empty?")
	assert.Contains(t, reply, "the previous order was **finalized**")
	assert.Contains(t, reply, "4 x Cement CP II 50kg")
	assert.Equal(t, "order_explainer", fx.conv.lastBranch())
}

func TestChatFallback(t *testing.T) {
	fx := newChatFixture()

	reply, needsHuman := fx.svc.HandleMessage(context.Background(), "s1", "xyzzy plugh")
	assert.False(t, needsHuman)
	assert.Contains(t, reply, "I could not quite understand what you want.")
	assert.Contains(t, reply, "**I want fine sand**")
	assert.Equal(t, "fallback", fx.conv.lastBranch())
}

// panickyCart blows up on every summary request.
type panickyCart struct{ ICartService }

func (panickyCart) FormatBudget(context.Context, string) (string, error) {
	panic("boom")
}

func TestChatRecoversFromPanic(t *testing.T) {
	store := state.NewStore(newFakeStateRepo())
	prompts := prompt.NewManager(store)
	productRepo := &fakeProductRepo{}
	conv := &fakeConversationRepo{}

	svc := NewChatService(
		store, prompts, nil, nil, nil,
		search.NewService(productRepo),
		knowledge.NewService(&fakeKnowledgeRepo{}, nil),
		recommend.NewSynthesizer(nil),
		panickyCart{}, nil, productRepo, conv, nil, nopLogger{}, nil,
	)

	reply, needsHuman := svc.HandleMessage(context.Background(), "s1", "show my budget")
	assert.True(t, needsHuman)
	assert.Equal(t, constant.HumanFallbackReply, reply)
	assert.Equal(t, "panic", conv.lastBranch())
}
