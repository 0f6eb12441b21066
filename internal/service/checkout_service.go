package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/pkg/logger"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/events"
	pktNats "github.com/Rouggerxavier/projeto-chatbot/pkg/nats"

	"github.com/google/uuid"
)

var (
	phoneRe     = regexp.MustCompile(`(\d[\d\s\-().]{7,})`)
	nonDigitRe  = regexp.MustCompile(`\D`)
	namePattern = regexp.MustCompile(`(?i)\b(?:my name is|i am called|call me|this is)\s+([a-zA-ZÀ-ÿ][a-zA-ZÀ-ÿ\s]{1,})`)
)

// ParsePhone extracts a phone number (8+ digits) from the message.
func ParsePhone(message string) string {
	m := phoneRe.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(m[1], "")
	if len(digits) < 8 {
		return ""
	}
	return digits
}

// ParseName extracts a self-introduced name ("my name is Joan").
func ParseName(message string) string {
	m := namePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), " .,!;:")
}

type ICheckoutService interface {
	// Ready reports whether the session has everything needed to close:
	// delivery preference, payment method, an address when delivering, and
	// a non-empty budget.
	Ready(ctx context.Context, sessionID string) (bool, error)
	// Handle runs one step of the checkout conversation. Returns
	// (reply, true) when checkout owns this message, ("", false) otherwise.
	Handle(ctx context.Context, sessionID, message string) (string, bool, error)
}

type checkoutService struct {
	store              *state.Store
	cartService        ICartService
	customerRepository contract.CustomerRepository
	orderRepository    contract.OrderRepository
	budgetRepository   contract.BudgetRepository
	eventPublisher     *pktNats.Publisher
	log                logger.ILogger
}

func NewCheckoutService(
	store *state.Store,
	cartService ICartService,
	customerRepository contract.CustomerRepository,
	orderRepository contract.OrderRepository,
	budgetRepository contract.BudgetRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICheckoutService {
	return &checkoutService{
		store:              store,
		cartService:        cartService,
		customerRepository: customerRepository,
		orderRepository:    orderRepository,
		budgetRepository:   budgetRepository,
		eventPublisher:     eventPublisher,
		log:                log,
	}
}

func (c *checkoutService) Ready(ctx context.Context, sessionID string) (bool, error) {
	st, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}

	if state.Str(st, state.KeyDeliveryPref) == "" {
		return false, nil
	}
	if state.Str(st, state.KeyPaymentMethod) == "" {
		return false, nil
	}
	if state.Str(st, state.KeyDeliveryPref) == "delivery" &&
		state.Str(st, state.KeyPostalCode) == "" &&
		state.Str(st, state.KeyAddress) == "" &&
		state.Str(st, state.KeyNeighborhood) == "" {
		return false, nil
	}

	budget, err := c.cartService.OpenBudget(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return budget != nil && len(budget.Items) > 0, nil
}

func (c *checkoutService) Handle(ctx context.Context, sessionID, message string) (string, bool, error) {
	st, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return "", false, err
	}

	if !state.Bool(st, state.KeyCheckoutMode) {
		return "", false, nil
	}

	// capture name/phone from the message itself
	patch := map[string]interface{}{}
	if n := ParseName(message); n != "" {
		patch[state.KeyCustomerName] = n
	}
	if tel := ParsePhone(message); tel != "" {
		patch[state.KeyCustomerPhone] = tel
	}
	if len(patch) > 0 {
		if st, err = c.store.Patch(ctx, sessionID, patch); err != nil {
			return "", false, err
		}
	}

	// ask for whatever is still missing, one thing at a time
	if state.Str(st, state.KeyDeliveryPref) == "" {
		return "To finalize: will this be **delivery** or **pickup**?", true, nil
	}
	if state.Str(st, state.KeyPaymentMethod) == "" {
		return "What is the payment method? (**pix**, **card** or **cash**)", true, nil
	}
	if state.Str(st, state.KeyDeliveryPref) == "delivery" &&
		state.Str(st, state.KeyPostalCode) == "" &&
		state.Str(st, state.KeyAddress) == "" &&
		state.Str(st, state.KeyNeighborhood) == "" {
		return "For delivery, tell me your **neighborhood** or send your **zip code/address**.", true, nil
	}
	if state.Str(st, state.KeyCustomerName) == "" {
		return "So I can hand this to an agent, tell me your **name** (e.g. \"my name is Joan\").", true, nil
	}
	if state.Str(st, state.KeyCustomerPhone) == "" {
		return "Now send me a **phone number** for contact (e.g. 5551999999).", true, nil
	}

	reply, err := c.createOrder(ctx, sessionID, st)
	if _, perr := c.store.Patch(ctx, sessionID, map[string]interface{}{state.KeyCheckoutMode: false}); perr != nil && err == nil {
		err = perr
	}
	if err != nil {
		c.log.Error("checkout", "failed to create order", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return "I could not close your order right now. Could you try again in a moment?", true, nil
	}
	return reply, true, nil
}

func (c *checkoutService) createOrder(ctx context.Context, sessionID string, st map[string]interface{}) (string, error) {
	budget, err := c.cartService.OpenBudget(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if budget == nil || len(budget.Items) == 0 {
		return "Your budget is empty. Add at least 1 item before finalizing.", nil
	}

	// render the summary before the budget is closed
	summary, err := c.cartService.FormatBudget(ctx, sessionID)
	if err != nil {
		return "", err
	}

	customer := &entity.Customer{
		Id:           uuid.New(),
		SessionID:    sessionID,
		Name:         state.Str(st, state.KeyCustomerName),
		Phone:        state.Str(st, state.KeyCustomerPhone),
		Email:        state.Str(st, state.KeyCustomerEmail),
		Neighborhood: state.Str(st, state.KeyNeighborhood),
		PostalCode:   state.Str(st, state.KeyPostalCode),
		Address:      state.Str(st, state.KeyAddress),
		CreatedAt:    time.Now(),
	}
	if err := c.customerRepository.Upsert(ctx, customer); err != nil {
		return "", err
	}

	deliveryTarget := "pickup at store"
	if state.Str(st, state.KeyDeliveryPref) == "delivery" {
		parts := []string{}
		for _, v := range []string{customer.Address, customer.Neighborhood, customer.PostalCode} {
			if v != "" {
				parts = append(parts, v)
			}
		}
		deliveryTarget = strings.Join(parts, ", ")
	}

	order := &entity.Order{
		Id:             uuid.New(),
		SessionID:      sessionID,
		CustomerId:     customer.Id,
		BudgetId:       budget.Id,
		Status:         entity.OrderStatusPendingHandoff,
		DeliveryPref:   state.Str(st, state.KeyDeliveryPref),
		PaymentMethod:  state.Str(st, state.KeyPaymentMethod),
		DeliveryTarget: deliveryTarget,
		Total:          budget.Total(),
		CreatedAt:      time.Now(),
	}
	for _, it := range budget.Items {
		order.Items = append(order.Items, &entity.OrderItem{
			Id:        uuid.New(),
			OrderId:   order.Id,
			ProductId: it.ProductId,
			Name:      it.Name,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	if err := c.orderRepository.Create(ctx, order); err != nil {
		return "", err
	}

	budget.Status = entity.BudgetStatusClosed
	if err := c.budgetRepository.Update(ctx, budget); err != nil {
		return "", err
	}

	if _, err := c.store.Patch(ctx, sessionID, map[string]interface{}{
		state.KeyLastOrderID:      order.Id.String(),
		state.KeyLastOrderSummary: summary,
		state.KeyLastOrderTotal:   order.Total,
	}); err != nil {
		return "", err
	}

	if c.eventPublisher != nil {
		event := events.NewOrderCreated(order.Id.String(), sessionID, order.Total)
		if err := c.eventPublisher.Publish(ctx, event); err != nil {
			c.log.Warn("checkout", "failed to publish order created event", map[string]interface{}{
				"order_id": order.Id.String(),
				"error":    err.Error(),
			})
		}
	}

	reply := fmt.Sprintf(
		"✅ Order #%s registered and forwarded to an agent to finalize.\n\nA human agent will review and close your order now. 🙋\n\n%s",
		shortOrderRef(order.Id), summary,
	)
	return reply, nil
}

// shortOrderRef keeps the customer-visible reference readable.
func shortOrderRef(id uuid.UUID) string {
	s := id.String()
	return strings.ToUpper(s[:8])
}
