package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/constant"
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/pkg/logger"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/choice"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/planner"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/router"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/knowledge"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/search"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/guardrail"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/investigation"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/parse"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/prefs"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/prompt"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/recommend"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/events"
	pktNats "github.com/Rouggerxavier/projeto-chatbot/pkg/nats"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"

	"github.com/google/uuid"
)

const usageExamples = "Try being more direct, for example:\n" +
	"- **I want fine sand**\n" +
	"- **I want cement CP II 50kg**\n" +
	"- **I want a 5m tape measure**"

type IChatService interface {
	// HandleMessage runs one conversation turn. It never returns an error:
	// anything unexpected collapses to a fixed apology with needsHuman set.
	HandleMessage(ctx context.Context, sessionID, message string) (reply string, needsHuman bool)
}

type chatService struct {
	store                  *state.Store
	prompts                *prompt.Manager
	router                 *router.Router
	planner                *planner.Planner
	chooser                *choice.Interpreter
	searchService          *search.Service
	knowledgeService       *knowledge.Service
	synthesizer            *recommend.Synthesizer
	cartService            ICartService
	checkoutService        ICheckoutService
	productRepository      contract.ProductRepository
	conversationRepository contract.ConversationRepository
	eventPublisher         *pktNats.Publisher
	log                    logger.ILogger
	decisions              *logger.DecisionLogger
}

func NewChatService(
	store *state.Store,
	prompts *prompt.Manager,
	intentRouter *router.Router,
	consultivePlanner *planner.Planner,
	chooser *choice.Interpreter,
	searchService *search.Service,
	knowledgeService *knowledge.Service,
	synthesizer *recommend.Synthesizer,
	cartService ICartService,
	checkoutService ICheckoutService,
	productRepository contract.ProductRepository,
	conversationRepository contract.ConversationRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	decisions *logger.DecisionLogger,
) IChatService {
	return &chatService{
		store:                  store,
		prompts:                prompts,
		router:                 intentRouter,
		planner:                consultivePlanner,
		chooser:                chooser,
		searchService:          searchService,
		knowledgeService:       knowledgeService,
		synthesizer:            synthesizer,
		cartService:            cartService,
		checkoutService:        checkoutService,
		productRepository:      productRepository,
		conversationRepository: conversationRepository,
		eventPublisher:         eventPublisher,
		log:                    log,
		decisions:              decisions,
	}
}

func (c *chatService) HandleMessage(ctx context.Context, sessionID, message string) (reply string, needsHuman bool) {
	branch := "fallback"
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("chat", "recovered from panic while handling message", map[string]interface{}{
				"session_id": sessionID,
				"panic":      fmt.Sprintf("%v", r),
			})
			needsHuman = true
			reply, _ = guardrail.Apply(constant.HumanFallbackReply)
			c.recordTurn(ctx, sessionID, message, reply, needsHuman, "panic")
		}
	}()

	reply, needsHuman, branch = c.process(ctx, sessionID, message)
	reply, _ = guardrail.Apply(reply)
	c.recordTurn(ctx, sessionID, message, reply, needsHuman, branch)

	if needsHuman && c.eventPublisher != nil {
		if err := c.eventPublisher.Publish(ctx, events.NewHumanHandoff(sessionID, branch)); err != nil {
			c.log.Warn("chat", "failed to publish handoff event", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
	return reply, needsHuman
}

// process is the fixed-priority waterfall. Each stage either returns a reply
// or falls through to the next.
func (c *chatService) process(ctx context.Context, sessionID, message string) (string, bool, string) {

	// 1) pending prompt: satisfy, interrupt, or re-ask
	if reply, handled := c.resolvePendingPrompt(ctx, sessionID, message); handled {
		return reply, false, "pending_prompt"
	}

	// 2) fast intents, pattern-only
	if parse.IsGreeting(message) {
		return "Good morning! 🙂 How can I help? (e.g. cement, sand, a tape measure...)", false, "greeting"
	}
	if parse.IsHoursQuestion(message) {
		return constant.StoreHours, false, "hours"
	}
	if parse.IsCartShowRequest(message) {
		summary, err := c.cartService.FormatBudget(ctx, sessionID)
		if err != nil {
			summary = emptyBudgetReply
		}
		return summary, false, "cart_show"
	}
	if parse.IsCartResetRequest(message) {
		reply, err := c.cartService.Reset(ctx, sessionID)
		if err != nil {
			reply = "I had trouble clearing your budget."
		}
		return reply, false, "cart_reset"
	}

	// 3) passive preference/address capture; never short-circuits
	st := c.mustState(ctx, sessionID)
	if patch := prefs.AddressPatch(message); patch != nil {
		st = c.patchState(ctx, sessionID, st, patch)
	}
	if patch := prefs.PreferencesPatch(message, st); patch != nil {
		st = c.patchState(ctx, sessionID, st, patch)
	}

	// 4) in-flight rule flows, fixed precedence
	if reply := c.handleRemoveQty(ctx, sessionID, st, message); reply != "" {
		return reply, false, "remove_qty"
	}
	if reply := c.handleRemoveChoice(ctx, sessionID, st, message); reply != "" {
		return reply, false, "remove_choice"
	}
	if parse.IsRemovalRequest(message) {
		return c.startRemoveFlow(ctx, sessionID), false, "remove_start"
	}
	if state.Bool(st, state.KeyAskingForMore) {
		if reply, needsHuman := c.handleMoreProducts(ctx, sessionID, st, message); reply != "" {
			return reply, needsHuman, "more_products"
		}
		st = c.mustState(ctx, sessionID)
	}
	if state.Bool(st, state.KeyCheckoutMode) || parse.IsCheckoutRequest(message) {
		if !state.Bool(st, state.KeyCheckoutMode) {
			st = c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyCheckoutMode: true})
		}
		reply, handled, err := c.checkoutService.Handle(ctx, sessionID, message)
		if err != nil {
			c.log.Error("chat", "checkout step failed", map[string]interface{}{
				"session_id": sessionID, "error": err.Error(),
			})
			return "I had a problem with your checkout. Could you try again?", true, "checkout"
		}
		if handled {
			return reply, true, "checkout"
		}
	}
	if state.Bool(st, state.KeyAwaitingUsageContext) {
		if reply := c.handleUsageContext(ctx, sessionID, st, message); reply != "" {
			return reply, false, "usage_context"
		}
		st = c.mustState(ctx, sessionID)
	}
	if reply := c.handlePendingQty(ctx, sessionID, st, message); reply != "" {
		return reply, false, "pending_qty"
	}

	// 5) LLM router, unless a rule flow owns the conversation
	if c.router != nil && !router.FlowStateBlocksRouting(st, message) {
		if reply, needsHuman, ok := c.consultRouter(ctx, sessionID, st, message); ok {
			return reply, needsHuman, "router"
		}
		st = c.mustState(ctx, sessionID)
	}

	// 6) active investigation continuation
	if state.Bool(st, state.KeyConsultiveInvestigation) {
		if reply := c.continueInvestigation(ctx, sessionID, st, message); reply != "" {
			return reply, false, "investigation"
		}
		st = c.mustState(ctx, sessionID)
	}

	// 7) preference-only acknowledgement
	if prefs.IsPreferencesOnly(message, st) {
		return c.replyAfterPreference(ctx, sessionID), false, "preferences"
	}

	// 8) explicit yes/no after a shown recommendation
	if state.Bool(st, state.KeyRecommendationShown) {
		if reply := c.handleRecommendationFollowup(ctx, sessionID, st, message); reply != "" {
			return reply, false, "recommendation_followup"
		}
	}

	// 9) numbered or worded suggestion selection
	if reply := c.handleSuggestionChoice(ctx, sessionID, st, message); reply != "" {
		return reply, false, "selection"
	}

	// 10) open technical question
	if knowledge.IsConsultiveQuestion(message) {
		contextProduct := state.Str(st, state.KeyConsultiveProductHint)
		return c.knowledgeService.Answer(ctx, message, contextProduct), false, "consultive_question"
	}

	// 11) post-order "budget looks empty" explainer; "budget" and "quote"
	// read as product intent, so this must run before auto-suggest
	t := textnorm.Norm(message)
	lastOrderSummary := state.Str(st, state.KeyLastOrderSummary)
	if (strings.Contains(t, "budget") || strings.Contains(t, "quote")) && strings.Contains(t, "empty") && lastOrderSummary != "" {
		reply := "Your budget looks empty because the previous order was **finalized** and its budget was **closed**.\n\n" +
			"Summary of your last order:\n" + lastOrderSummary + "\n\n" +
			"If you want to start a new budget, just tell me the items."
		return reply, false, "order_explainer"
	}

	// 12) generic auto-suggest from free text, then the fixed fallback
	if reply := c.autoSuggest(ctx, sessionID, message); reply != "" {
		return reply, false, "auto_suggest"
	}

	summary, err := c.cartService.FormatBudget(ctx, sessionID)
	if err != nil {
		summary = emptyBudgetReply
	}
	reply := fmt.Sprintf(
		"%s\n\nI could not quite understand what you want.\n\n%s\n\nIf your order is ready, say **finalize**.",
		summary, usageExamples,
	)
	return reply, false, "fallback"
}

// --- stage 1: pending prompt ---------------------------------------------

func (c *chatService) resolvePendingPrompt(ctx context.Context, sessionID, message string) (string, bool) {
	p, err := c.prompts.Pending(ctx, sessionID)
	if err != nil || p == nil {
		return "", false
	}

	if prompt.Satisfies(p, message) {
		// the answer flows into the stage that asked the question
		if err := c.prompts.SetPending(ctx, sessionID, nil); err != nil {
			c.log.Warn("chat", "failed to clear pending prompt", map[string]interface{}{
				"session_id": sessionID, "error": err.Error(),
			})
		}
		return "", false
	}

	if prompt.LooksLikeInterruption(message) {
		if err := c.prompts.Push(ctx, sessionID, p); err != nil {
			return p.Text, true
		}
		_ = c.prompts.SetPending(ctx, sessionID, nil)

		st := c.mustState(ctx, sessionID)
		answer := c.knowledgeService.Answer(ctx, message, state.Str(st, state.KeyConsultiveProductHint))

		saved, err := c.prompts.Pop(ctx, sessionID)
		if err != nil || saved == nil {
			return answer, true
		}
		_ = c.prompts.SetPending(ctx, sessionID, saved)
		return answer + "\n\n" + prompt.ResumePrefix + saved.Text, true
	}

	// neither an answer nor a question: re-ask verbatim, never drop it
	return p.Text, true
}

// --- stage 4: rule flows --------------------------------------------------

func (c *chatService) handleRemoveQty(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	if !state.Bool(st, state.KeyAwaitingRemoveQty) {
		return ""
	}

	clear := map[string]interface{}{
		state.KeyAwaitingRemoveQty:   false,
		state.KeyPendingRemoveID:     nil,
		state.KeyPendingRemoveMaxQty: nil,
	}

	itemID, err := uuid.Parse(state.Str(st, state.KeyPendingRemoveID))
	if err != nil {
		c.patchState(ctx, sessionID, st, clear)
		return "I could not identify the item to remove. Please try again."
	}
	maxQty := float64(state.Int(st, state.KeyPendingRemoveMaxQty))

	item := c.findBudgetItem(ctx, sessionID, itemID)
	if item == nil {
		c.patchState(ctx, sessionID, st, clear)
		return "I could not identify the item to remove. Please try again."
	}

	t := textnorm.Norm(message)
	if t == "all" || t == "everything" || t == "all of it" {
		reply, err := c.cartService.RemoveQuantity(ctx, sessionID, item, item.Quantity)
		if err != nil {
			return "I had trouble removing that item. Please try again."
		}
		c.patchState(ctx, sessionID, st, clear)
		return c.withBudgetSummary(ctx, sessionID, reply)
	}

	qty, ok := parse.ExtractUnitsQuantity(message)
	if !ok {
		qty, ok = parse.ExtractPlainNumber(message)
	}
	if !ok || qty <= 0 {
		return fmt.Sprintf(
			"I did not get the quantity. You have **%.0f unit(s)** in your budget.\n\nTell me how many to remove (e.g. 2, 5) or say **all** to remove everything.",
			maxQty,
		)
	}

	reply, err := c.cartService.RemoveQuantity(ctx, sessionID, item, qty)
	if err != nil {
		return "I had trouble removing that item. Please try again."
	}
	c.patchState(ctx, sessionID, st, clear)
	return c.withBudgetSummary(ctx, sessionID, reply)
}

func (c *chatService) handleRemoveChoice(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	if !state.Bool(st, state.KeyAwaitingRemoveChoice) {
		return ""
	}

	opts, _ := st[state.KeyRemoveOptions].([]interface{})
	clear := map[string]interface{}{
		state.KeyAwaitingRemoveChoice: false,
		state.KeyRemoveOptions:        nil,
	}

	if prompt.IsNo(message) {
		c.patchState(ctx, sessionID, st, clear)
		return "Right, I kept every item in your budget."
	}
	if len(opts) == 0 {
		c.patchState(ctx, sessionID, st, clear)
		return "I could not find items to remove right now."
	}

	indices := parse.ParseChoiceIndices(message, len(opts))
	if len(indices) == 0 {
		return "Tell me the number of the item you want removed, or say **no** to keep everything.\n\n" + formatRemoveOptions(opts)
	}

	chosen, _ := opts[indices[0]].(map[string]interface{})
	if chosen == nil {
		return "Invalid option. Pick a number from the list or say **no** to keep everything.\n\n" + formatRemoveOptions(opts)
	}

	name, _ := chosen["name"].(string)
	qty, _ := chosen["quantity"].(float64)
	productID, _ := chosen["item_id"].(string)

	c.patchState(ctx, sessionID, st, map[string]interface{}{
		state.KeyAwaitingRemoveChoice: false,
		state.KeyRemoveOptions:        nil,
		state.KeyAwaitingRemoveQty:    true,
		state.KeyPendingRemoveID:      productID,
		state.KeyPendingRemoveMaxQty:  qty,
	})

	return fmt.Sprintf(
		"You have **%.0f unit(s)** of **%s** in your budget.\n\nHow many do you want removed? (or say **all** to remove every one)",
		qty, name,
	)
}

func (c *chatService) startRemoveFlow(ctx context.Context, sessionID string) string {
	budget, err := c.cartService.OpenBudget(ctx, sessionID)
	if err != nil || budget == nil || len(budget.Items) == 0 {
		return "Your budget is empty. There is nothing to remove."
	}

	opts := make([]interface{}, 0, len(budget.Items))
	for _, it := range budget.Items {
		opts = append(opts, map[string]interface{}{
			"item_id":  it.Id.String(),
			"name":     it.Name,
			"quantity": it.Quantity,
			"unit":     it.Unit,
			"subtotal": it.Quantity * it.UnitPrice,
		})
	}

	st := c.mustState(ctx, sessionID)
	c.patchState(ctx, sessionID, st, map[string]interface{}{
		state.KeyAwaitingRemoveChoice: true,
		state.KeyRemoveOptions:        opts,
	})

	return "Want to remove an item from your budget? Reply with its number, or say **no** to keep everything.\n\n" + formatRemoveOptions(opts)
}

func formatRemoveOptions(opts []interface{}) string {
	var lines []string
	for i, raw := range opts {
		o, _ := raw.(map[string]interface{})
		if o == nil {
			continue
		}
		name, _ := o["name"].(string)
		qty, _ := o["quantity"].(float64)
		unit, _ := o["unit"].(string)
		subtotal, _ := o["subtotal"].(float64)
		lines = append(lines, fmt.Sprintf("%d) %s - %.0f %s ($ %.2f)", i+1, name, qty, unit, subtotal))
	}
	return strings.Join(lines, "\n")
}

// handleMoreProducts answers the "want another product?" follow-up. A "no"
// pivots straight into checkout, listing whatever is still missing.
func (c *chatService) handleMoreProducts(ctx context.Context, sessionID string, st map[string]interface{}, message string) (string, bool) {
	if prompt.IsYes(message) {
		c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyAskingForMore: false})
		return "Great! Which product do you want to add?", false
	}

	if prompt.IsNo(message) {
		st = c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyAskingForMore: false})

		budget, err := c.cartService.OpenBudget(ctx, sessionID)
		if err != nil || budget == nil || len(budget.Items) == 0 {
			return "Your budget is empty. I need you to add something first.", false
		}

		var missing []string
		if state.Str(st, state.KeyDeliveryPref) == "" {
			missing = append(missing, "• Do you prefer **delivery** or **pickup**?")
		}
		if state.Str(st, state.KeyPaymentMethod) == "" {
			missing = append(missing, "• Is the payment **pix**, **card** or **cash**?")
		}
		if state.Str(st, state.KeyDeliveryPref) == "delivery" && state.Str(st, state.KeyAddress) == "" {
			missing = append(missing, "• Send me the **full address** (street and number; neighborhood if you know it).")
		}
		if state.Str(st, state.KeyCustomerName) == "" {
			missing = append(missing, "• What is your **name**?")
		}
		if state.Str(st, state.KeyCustomerPhone) == "" {
			missing = append(missing, "• What is your **phone number**?")
		}

		c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyCheckoutMode: true})

		summary, err := c.cartService.FormatBudget(ctx, sessionID)
		if err != nil {
			summary = ""
		}
		if len(missing) > 0 {
			return "Great! Now I need a few details to finalize:\n" + strings.Join(missing, "\n") + "\n\nSummary:\n" + summary, true
		}
		return "Perfect! Your details are complete. Creating the order...", true
	}

	return "Got it. Do you want to add another product? (reply **yes** or **no**)", false
}

// handleUsageContext consumes the answer to "what's the job?" and either
// starts the static investigation flow or asks the planner what to do next.
func (c *chatService) handleUsageContext(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	productHint := state.Str(st, state.KeyUsageContextProductHint)
	if productHint == "" {
		c.patchState(ctx, sessionID, st, map[string]interface{}{
			state.KeyAwaitingUsageContext:    false,
			state.KeyUsageContextProductHint: nil,
		})
		return ""
	}

	application := investigation.ExtractUsageContext(message)
	if application == "" {
		return "I did not quite get that. What will you use it for? (e.g. slab, plaster, exterior wall...)"
	}

	st = c.patchState(ctx, sessionID, st, map[string]interface{}{
		state.KeyAwaitingUsageContext:    false,
		state.KeyUsageContextProductHint: nil,
		state.KeyConsultiveApplication:   application,
		state.KeyConsultiveProductHint:   productHint,
	})

	if question, patch, ok := investigation.StartPatch(productHint, application); ok {
		c.patchState(ctx, sessionID, st, patch)
		c.setFreeTextPrompt(ctx, sessionID, question)
		return question
	}

	// no static flow: let the planner pick the next missing field
	if c.planner != nil {
		known := investigation.CollectedContext(st)
		asked := state.Strings(st, state.KeyAskedContextFields)
		plan := c.planner.PlanNextStep(ctx, message, router.SummarizeState(st), productHint, known, asked)
		if c.decisions != nil {
			accepted := c.planner.Accepts(plan)
			conf := 0.0
			verdict := "nil"
			if plan != nil {
				conf = plan.Confidence
				verdict = plan.NextAction
			}
			c.decisions.Decision("planner", sessionID, verdict, conf, accepted, map[string]interface{}{
				"product_hint": productHint,
			})
		}
		if c.planner.Accepts(plan) && plan.NextAction == planner.ActionAskContext && plan.NextQuestion != "" {
			asked = append(asked, plan.MissingFields...)
			c.patchState(ctx, sessionID, st, map[string]interface{}{
				state.KeyAskedContextFields:     toInterfaceSlice(asked),
				state.KeyLastConsultiveQuestion: plan.NextQuestion,
			})
			c.setFreeTextPrompt(ctx, sessionID, plan.NextQuestion)
			return plan.NextQuestion
		}
	}

	// nothing left to ask: recommend directly
	st = c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyRecommendationShown: true})
	return c.produceRecommendation(ctx, sessionID, st)
}

func (c *chatService) handlePendingQty(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	if !state.Bool(st, state.KeyAwaitingQty) || state.Str(st, state.KeyPendingProductID) == "" {
		return ""
	}

	clear := map[string]interface{}{
		state.KeyAwaitingQty:           false,
		state.KeyPendingProductID:      nil,
		state.KeyPendingSuggestedUnits: nil,
	}

	product := c.findProduct(ctx, state.Str(st, state.KeyPendingProductID))
	if product == nil {
		c.patchState(ctx, sessionID, st, clear)
		return "Right - I could not locate that product just now. Tell me again which product you want."
	}

	var qty float64
	var haveQty bool

	suggested, hasSuggested := st[state.KeyPendingSuggestedUnits].(float64)
	if prompt.IsYes(message) && hasSuggested {
		qty, haveQty = suggested, true
	} else {
		if kg, ok := parse.ExtractKgQuantity(message); ok {
			units, _, convOK := parse.SuggestUnitsFromPackaging(product.Name, kg)
			if !convOK {
				return "I got the kg, but this item does not state a weight per bag/unit. Tell me how many units you want (e.g. 4)."
			}
			qty, haveQty = units, true
		}
		if units, ok := parse.ExtractUnitsQuantity(message); ok {
			qty, haveQty = units, true
		}
		if !haveQty {
			if plain, ok := parse.ExtractPlainNumber(message); ok {
				qty, haveQty = plain, true
			}
		}
		if !haveQty {
			if hasSuggested {
				return fmt.Sprintf("Should I add **%.0f** units to your budget? (reply yes, or give another quantity)", suggested)
			}
			return "Got it. How many units do you want? (e.g. 1, 4 bags or 200kg)"
		}
	}

	if qty <= 0 {
		return "Got it. How many units do you want?"
	}

	c.patchState(ctx, sessionID, st, clear)

	confirmation, err := c.cartService.AddItem(ctx, sessionID, product, qty)
	if err != nil {
		c.log.Error("chat", "failed to add budget item", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		return "I could not add this item right now."
	}

	summary, err := c.cartService.FormatBudget(ctx, sessionID)
	if err != nil {
		summary = ""
	}

	c.patchState(ctx, sessionID, nil, map[string]interface{}{state.KeyAskingForMore: true})
	return fmt.Sprintf("%s\n\n%s\n\nDo you want to add another product? (yes or no)", confirmation, summary)
}

// --- stage 5: router ------------------------------------------------------

func (c *chatService) consultRouter(ctx context.Context, sessionID string, st map[string]interface{}, message string) (string, bool, bool) {
	decision := c.router.RouteIntent(ctx, message, router.SummarizeState(st))

	if c.decisions != nil {
		verdict := "nil"
		conf := 0.0
		if decision != nil {
			verdict = decision.Intent + "/" + decision.Action
			conf = decision.Confidence
		}
		c.decisions.Decision("router", sessionID, verdict, conf, c.router.Accepts(decision), nil)
	}

	if decision == nil {
		return "", false, false // transport or schema failure: rule-based path
	}

	if !c.router.Accepts(decision) {
		// below the hard block the decision is discarded outright;
		// between the thresholds only its clarifying question may run
		if c.router.AboveHardBlock(decision) && decision.ClarifyingQuestion != "" {
			return decision.ClarifyingQuestion, false, true
		}
		return "", false, false
	}

	switch decision.Action {
	case router.ActionHandoffCheckout:
		c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyCheckoutMode: true})
		reply, handled, err := c.checkoutService.Handle(ctx, sessionID, message)
		if err != nil || !handled {
			return "", false, false
		}
		return reply, true, true
	case router.ActionAnswerWithRAG:
		contextProduct := decision.ProductQuery
		if contextProduct == "" {
			contextProduct = state.Str(st, state.KeyConsultiveProductHint)
		}
		return c.knowledgeService.Answer(ctx, message, contextProduct), false, true
	case router.ActionShowCatalog:
		query := decision.ProductQuery
		if query == "" {
			query = message
		}
		if reply := c.autoSuggest(ctx, sessionID, query); reply != "" {
			return reply, false, true
		}
		return "", false, false
	case router.ActionAskClarifyingQuestion:
		if decision.ClarifyingQuestion != "" {
			return decision.ClarifyingQuestion, false, true
		}
		return "Could you tell me a bit more about what you need?", false, true
	}
	return "", false, false
}

// --- stage 6: investigation ----------------------------------------------

func (c *chatService) continueInvestigation(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	outcome := investigation.ContinuePatch(st, message)
	if outcome == nil {
		return ""
	}

	st = c.patchState(ctx, sessionID, st, outcome.Patch)

	if outcome.Abort {
		return ""
	}
	if !outcome.Done {
		c.setFreeTextPrompt(ctx, sessionID, outcome.Question)
		return outcome.Question
	}
	return c.produceRecommendation(ctx, sessionID, st)
}

// produceRecommendation closes an investigation: staged catalog search,
// minimum-context gate, rule lookup and synthesis.
func (c *chatService) produceRecommendation(ctx context.Context, sessionID string, st map[string]interface{}) string {
	productHint := state.Str(st, state.KeyConsultiveProductHint)
	application := state.Str(st, state.KeyConsultiveApplication)
	collected := investigation.CollectedContext(st)

	constraints := search.ExtractConstraints(state.Str(st, state.KeyConsultiveLastSummary), productHint, collected)
	query := strings.TrimSpace(productHint + " " + application)
	result := c.searchService.Search(ctx, query, constraints)

	if len(result.Items) == 0 {
		c.patchState(ctx, sessionID, st, map[string]interface{}{
			state.KeyConsultiveInvestigation: false,
			state.KeyRecommendationShown:     false,
		})
		return fmt.Sprintf(
			"Hmm, I could not find %s for %s in the catalog right now.\n\nWant to try another product, or can I help some other way?",
			productHint, application,
		)
	}

	// remember the shown options for the selection stage
	suggestions := make([]interface{}, 0, len(result.Items))
	for _, p := range result.Items {
		suggestions = append(suggestions, map[string]interface{}{"id": p.Id.String(), "name": p.Name})
	}
	c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyLastSuggestions: suggestions})

	rec := recommend.Lookup(collected)
	reply := c.synthesizer.Format(ctx, rec, result.Items, collected)

	// an unmet spec is disclosed, never silently substituted
	if !result.ExactMatchFound && len(result.UnmetMustTerms) > 0 {
		reply = fmt.Sprintf(
			"I did not find an exact match for **%s**, so here are the closest alternatives.\n\n%s",
			strings.Join(result.UnmetMustTerms, ", "), reply,
		)
	}
	return reply
}

// --- stage 7: preference acknowledgement ---------------------------------

func (c *chatService) replyAfterPreference(ctx context.Context, sessionID string) string {
	st := c.mustState(ctx, sessionID)
	summary, err := c.cartService.FormatBudget(ctx, sessionID)
	if err != nil {
		summary = emptyBudgetReply
	}

	var parts []string
	if v := state.Str(st, state.KeyDeliveryPref); v != "" {
		parts = append(parts, fmt.Sprintf("Alright - noted **%s**.", v))
	}
	if v := state.Str(st, state.KeyPaymentMethod); v != "" {
		parts = append(parts, fmt.Sprintf("Payment: **%s**.", v))
	}
	if v := state.Str(st, state.KeyAddress); v != "" {
		parts = append(parts, fmt.Sprintf("Address: **%s**.", v))
	}
	if v := state.Str(st, state.KeyNeighborhood); v != "" {
		parts = append(parts, fmt.Sprintf("Neighborhood: **%s**.", v))
	}
	if v := state.Str(st, state.KeyPostalCode); v != "" {
		parts = append(parts, fmt.Sprintf("Zip: **%s**.", v))
	}

	reply := ""
	if len(parts) > 0 {
		reply += strings.Join(parts, " ") + "\n\n"
	}
	reply += summary

	if state.Str(st, state.KeyDeliveryPref) == "" {
		reply += "\n\nWill it be **delivery** or **pickup**?"
	} else if state.Str(st, state.KeyDeliveryPref) == "delivery" &&
		state.Str(st, state.KeyNeighborhood) == "" &&
		state.Str(st, state.KeyPostalCode) == "" &&
		state.Str(st, state.KeyAddress) == "" {
		reply += "\n\nTell me your **neighborhood** or send the **full address (street and number)** for delivery."
	}
	if state.Str(st, state.KeyPaymentMethod) == "" {
		reply += "\n\nWill you pay with **pix**, **card** or **cash**?"
	}

	reply += "\n\nIf everything looks right, say **finalize** and I will forward this to an agent."
	return reply
}

// --- stage 8: recommendation follow-up -----------------------------------

func (c *chatService) handleRecommendationFollowup(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	if prompt.IsYes(message) {
		c.patchState(ctx, sessionID, st, map[string]interface{}{state.KeyRecommendationShown: false})
		if suggestions, ok := st[state.KeyLastSuggestions].([]interface{}); ok && len(suggestions) > 0 {
			return "Great! Reply with the option number (1, 2, 3...) and I will add it to your budget."
		}
		return "Great! Tell me which product and quantity you want."
	}
	if prompt.IsNo(message) {
		if err := c.store.ResetConsultiveContext(ctx, sessionID); err != nil {
			c.log.Warn("chat", "failed to reset consultive context", map[string]interface{}{
				"session_id": sessionID, "error": err.Error(),
			})
		}
		return "No problem! Want to look at a different product, or is there anything else I can help with?"
	}
	return ""
}

// --- stage 9: suggestion selection ---------------------------------------

func (c *chatService) handleSuggestionChoice(ctx context.Context, sessionID string, st map[string]interface{}, message string) string {
	suggestions, _ := st[state.KeyLastSuggestions].([]interface{})
	if len(suggestions) == 0 {
		return ""
	}

	indices := parse.ParseChoiceIndices(message, len(suggestions))

	if len(indices) == 0 && c.chooser != nil {
		names := make([]string, 0, len(suggestions))
		for _, raw := range suggestions {
			s, _ := raw.(map[string]interface{})
			name, _ := s["name"].(string)
			names = append(names, name)
		}
		if n := c.chooser.Interpret(ctx, message, names); n > 0 {
			indices = []int{n - 1}
		}
	}
	if len(indices) == 0 {
		return "" // not a choice at all
	}

	chosen, _ := suggestions[indices[0]].(map[string]interface{})
	if chosen == nil {
		return ""
	}
	chosenID, _ := chosen["id"].(string)

	var requestedKg float64
	var hasRequestedKg bool
	if v, ok := st[state.KeyLastRequestedKg].(float64); ok {
		requestedKg, hasRequestedKg = v, true
	}

	c.patchState(ctx, sessionID, st, map[string]interface{}{
		state.KeyLastSuggestions: []interface{}{},
		state.KeyLastHint:        nil,
		state.KeyLastRequestedKg: nil,
	})

	product := c.findProduct(ctx, chosenID)
	if product == nil {
		return "I could not locate that option just now. Could you try again?"
	}
	return c.setPendingForQty(ctx, sessionID, product, requestedKg, hasRequestedKg)
}

// setPendingForQty announces the chosen product and asks for a quantity,
// pre-computing the bag conversion when the customer already said kg.
func (c *chatService) setPendingForQty(ctx context.Context, sessionID string, product *entity.Product, requestedKg float64, hasRequestedKg bool) string {
	patch := map[string]interface{}{
		state.KeyPendingProductID:      product.Id.String(),
		state.KeyAwaitingQty:           true,
		state.KeyPendingSuggestedUnits: nil,
	}

	ask := "\n\nHow many units do you want? (e.g. 1, 4 bags or 200kg)"
	if hasRequestedKg {
		if units, note, ok := parse.SuggestUnitsFromPackaging(product.Name, requestedKg); ok {
			patch[state.KeyPendingSuggestedUnits] = units
			ask = fmt.Sprintf(
				"\n\nFrom what you asked: **%s**.\nShould I add **%.0f** to your budget? (reply yes, or give another quantity)",
				note, units,
			)
		}
	}

	c.patchState(ctx, sessionID, nil, patch)
	c.setQuantityPrompt(ctx, sessionID, strings.TrimSpace(ask))

	unit := product.Unit
	if unit == "" {
		unit = "unit"
	}
	return fmt.Sprintf("Alright - **%s**.\nPrice: $ %.2f/%s.%s", product.Name, product.UnitPrice, unit, ask)
}

// --- stage 11: auto-suggest ----------------------------------------------

func (c *chatService) autoSuggest(ctx context.Context, sessionID, message string) string {
	if !parse.HasProductIntent(message) {
		return ""
	}

	hint := parse.ExtractProductHint(message)
	if len(hint) < 2 {
		return "I could not identify the product.\n\n" + usageExamples
	}

	if teach := c.badUnitCoaching(message, hint); teach != "" {
		return teach
	}

	// a fresh product request never inherits a previous product's context
	if err := c.store.ResetConsultiveContext(ctx, sessionID); err != nil {
		c.log.Warn("chat", "failed to reset consultive context", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	// generic categories get the usage-context question before any catalog
	if investigation.IsGenericProduct(hint) {
		question := investigation.UsageQuestion(hint)
		c.patchState(ctx, sessionID, nil, map[string]interface{}{
			state.KeyAwaitingUsageContext:    true,
			state.KeyUsageContextProductHint: hint,
		})
		c.setFreeTextPrompt(ctx, sessionID, question)
		return question
	}

	constraints := search.ExtractConstraints("", hint, nil)
	result := c.searchService.Search(ctx, hint, constraints)
	if len(result.Items) == 0 {
		return fmt.Sprintf("I found nothing in the catalog close to **%s**.\n\n%s", hint, usageExamples)
	}

	suggestions := make([]interface{}, 0, len(result.Items))
	for _, p := range result.Items {
		suggestions = append(suggestions, map[string]interface{}{"id": p.Id.String(), "name": p.Name})
	}

	patch := map[string]interface{}{
		state.KeyLastSuggestions: suggestions,
		state.KeyLastHint:        hint,
		state.KeyLastRequestedKg: nil,
	}

	extra := ""
	if kg, ok := parse.ExtractKgQuantity(message); ok {
		patch[state.KeyLastRequestedKg] = kg
		if _, note, convOK := parse.SuggestUnitsFromPackaging(result.Items[0].Name, kg); convOK {
			extra = fmt.Sprintf("\n\nFrom what you asked: **%s**.", note)
		}
	}

	c.patchState(ctx, sessionID, nil, patch)

	header := fmt.Sprintf("I found these catalog options for **%s**:", hint)
	if !result.ExactMatchFound && len(result.UnmetMustTerms) > 0 {
		header = fmt.Sprintf(
			"I did not find an exact match for **%s**, but these come close:",
			strings.Join(result.UnmetMustTerms, ", "),
		)
	}
	return fmt.Sprintf(
		"%s\n\n%s\n\nWhich one do you want? (reply 1, 2, 3... or type a similar name)%s",
		header, search.FormatOptions(result.Items), extra,
	)
}

// badUnitCoaching teaches sellable units when the request uses one the
// catalog does not sell in, like meters of sand.
func (c *chatService) badUnitCoaching(message, hint string) string {
	t := textnorm.Norm(message)
	h := textnorm.Norm(hint)

	if strings.Contains(h, "sand") {
		meters := strings.Contains(t, " meter") || strings.Contains(t, " meters")
		if !meters {
			for _, f := range strings.Fields(t) {
				if f == "m" {
					meters = true
					break
				}
			}
		}
		if meters && !strings.Contains(t, "m3") {
			return "Got it. Quick tip: **sand is normally sold by the m3 (cubic meter)**.\n\n" +
				"Try it like this:\n" +
				"- **I want 1m3 of fine sand**\n" +
				"- **medium sand 2m3**\n" +
				"- or just **fine sand** (and I will show you the options)\n\n" +
				"Which do you prefer?"
		}
	}
	return ""
}

// --- helpers --------------------------------------------------------------

func (c *chatService) mustState(ctx context.Context, sessionID string) map[string]interface{} {
	st, err := c.store.Get(ctx, sessionID)
	if err != nil {
		c.log.Error("chat", "failed to load session state", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		return state.Defaults()
	}
	return st
}

// patchState persists a patch and returns the merged state; on failure it
// merges in-memory so the turn still proceeds.
func (c *chatService) patchState(ctx context.Context, sessionID string, st, patch map[string]interface{}) map[string]interface{} {
	if len(patch) == 0 {
		return st
	}
	merged, err := c.store.Patch(ctx, sessionID, patch)
	if err != nil {
		c.log.Error("chat", "failed to patch session state", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		if st == nil {
			st = map[string]interface{}{}
		}
		for k, v := range patch {
			st[k] = v
		}
		return st
	}
	return merged
}

func (c *chatService) setFreeTextPrompt(ctx context.Context, sessionID, question string) {
	c.setPrompt(ctx, sessionID, &prompt.Pending{Text: question, ExpectedKind: prompt.KindFreeText})
}

func (c *chatService) setQuantityPrompt(ctx context.Context, sessionID, question string) {
	c.setPrompt(ctx, sessionID, &prompt.Pending{Text: question, ExpectedKind: prompt.KindQuantity})
}

func (c *chatService) setPrompt(ctx context.Context, sessionID string, p *prompt.Pending) {
	if err := c.prompts.SetPending(ctx, sessionID, p); err != nil {
		c.log.Warn("chat", "failed to set pending prompt", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}
}

func (c *chatService) findProduct(ctx context.Context, id string) *entity.Product {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	product, err := c.productRepository.FindOne(ctx, specification.ByID{ID: productID})
	if err != nil {
		return nil
	}
	return product
}

func (c *chatService) findBudgetItem(ctx context.Context, sessionID string, itemID uuid.UUID) *entity.BudgetItem {
	budget, err := c.cartService.OpenBudget(ctx, sessionID)
	if err != nil || budget == nil {
		return nil
	}
	for _, it := range budget.Items {
		if it.Id == itemID {
			return it
		}
	}
	return nil
}

func (c *chatService) withBudgetSummary(ctx context.Context, sessionID, reply string) string {
	summary, err := c.cartService.FormatBudget(ctx, sessionID)
	if err != nil || summary == "" {
		return reply
	}
	return reply + "\n\n" + summary
}

func (c *chatService) recordTurn(ctx context.Context, sessionID, message, reply string, needsHuman bool, branch string) {
	turn := &entity.ConversationTurn{
		Id:         uuid.New(),
		SessionID:  sessionID,
		Message:    message,
		Reply:      reply,
		NeedsHuman: needsHuman,
		Branch:     branch,
	}
	if err := c.conversationRepository.Create(ctx, turn); err != nil {
		c.log.Warn("chat", "failed to record conversation turn", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}
}

func toInterfaceSlice(items []string) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}
