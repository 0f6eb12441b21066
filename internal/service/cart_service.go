package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"

	"github.com/google/uuid"
)

const emptyBudgetReply = "Your budget is empty."

type ICartService interface {
	AddItem(ctx context.Context, sessionID string, product *entity.Product, quantity float64) (string, error)
	FormatBudget(ctx context.Context, sessionID string) (string, error)
	Reset(ctx context.Context, sessionID string) (string, error)
	OpenBudget(ctx context.Context, sessionID string) (*entity.Budget, error)
	RemoveQuantity(ctx context.Context, sessionID string, item *entity.BudgetItem, quantity float64) (string, error)
}

type cartService struct {
	budgetRepository contract.BudgetRepository
}

func NewCartService(budgetRepository contract.BudgetRepository) ICartService {
	return &cartService{budgetRepository: budgetRepository}
}

func (c *cartService) getOrCreateOpenBudget(ctx context.Context, sessionID string) (*entity.Budget, error) {
	budget, err := c.budgetRepository.FindOpenBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if budget != nil {
		return budget, nil
	}

	budget = &entity.Budget{
		Id:        uuid.New(),
		SessionID: sessionID,
		Status:    entity.BudgetStatusOpen,
		CreatedAt: time.Now(),
	}
	if err := c.budgetRepository.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// AddItem adds quantity of a product to the session's open budget, merging
// with an existing line for the same product. Returns the confirmation line
// shown to the customer.
func (c *cartService) AddItem(ctx context.Context, sessionID string, product *entity.Product, quantity float64) (string, error) {
	budget, err := c.getOrCreateOpenBudget(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var existing *entity.BudgetItem
	for _, it := range budget.Items {
		if it.ProductId == product.Id {
			existing = it
			break
		}
	}

	subtotal := quantity * product.UnitPrice
	if existing != nil {
		existing.Quantity += quantity
		subtotal = quantity * existing.UnitPrice
		if err := c.budgetRepository.UpdateItem(ctx, existing); err != nil {
			return "", err
		}
	} else {
		item := &entity.BudgetItem{
			Id:        uuid.New(),
			BudgetId:  budget.Id,
			ProductId: product.Id,
			Name:      product.Name,
			Unit:      product.Unit,
			UnitPrice: product.UnitPrice,
			Quantity:  quantity,
			CreatedAt: time.Now(),
		}
		if err := c.budgetRepository.AddItem(ctx, item); err != nil {
			return "", err
		}
	}

	unit := product.Unit
	if unit == "" {
		unit = "unit"
	}
	reply := fmt.Sprintf(
		"Item added to your budget.\nItem: %s Quantity: %.0f %s Approx. subtotal: $ %.2f",
		product.Name, quantity, unit, subtotal,
	)
	return reply, nil
}

// FormatBudget renders the open budget as a summary with line subtotals and
// the approximate total.
func (c *cartService) FormatBudget(ctx context.Context, sessionID string) (string, error) {
	budget, err := c.budgetRepository.FindOpenBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if budget == nil || len(budget.Items) == 0 {
		return emptyBudgetReply, nil
	}

	var lines []string
	lines = append(lines, "Budget summary:\n")
	for _, it := range budget.Items {
		sub := it.Quantity * it.UnitPrice
		lines = append(lines, fmt.Sprintf("%.0f x %s ($ %.2f each) = $ %.2f", it.Quantity, it.Name, it.UnitPrice, sub))
	}
	lines = append(lines, fmt.Sprintf("Approximate total: $ %.2f", budget.Total()))
	return strings.Join(lines, "\n"), nil
}

// Reset removes every item from the open budget.
func (c *cartService) Reset(ctx context.Context, sessionID string) (string, error) {
	budget, err := c.budgetRepository.FindOpenBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if budget == nil || len(budget.Items) == 0 {
		return "Your budget was already empty. We can start a new one now. 🙂", nil
	}

	if err := c.budgetRepository.RemoveAllItems(ctx, budget.Id); err != nil {
		return "", err
	}
	return "I cleared your current budget. We can start again from scratch. 🙂", nil
}

// OpenBudget exposes the open budget (items preloaded) to the flows, or
// (nil, nil) when none exists.
func (c *cartService) OpenBudget(ctx context.Context, sessionID string) (*entity.Budget, error) {
	return c.budgetRepository.FindOpenBySession(ctx, sessionID)
}

// RemoveQuantity removes quantity of an item, deleting the line when the
// quantity reaches it.
func (c *cartService) RemoveQuantity(ctx context.Context, sessionID string, item *entity.BudgetItem, quantity float64) (string, error) {
	if quantity >= item.Quantity {
		if err := c.budgetRepository.RemoveItem(ctx, item.Id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Removed %s from your budget.", item.Name), nil
	}

	item.Quantity -= quantity
	if err := c.budgetRepository.UpdateItem(ctx, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %.0f of %s. %.0f remaining in your budget.", quantity, item.Name, item.Quantity), nil
}
