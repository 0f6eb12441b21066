package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"

	"github.com/google/uuid"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	Update(ctx context.Context, budget *entity.Budget) error
	// FindOpenBySession returns the session's open budget with items
	// preloaded, or (nil, nil) when none exists.
	FindOpenBySession(ctx context.Context, sessionID string) (*entity.Budget, error)
	AddItem(ctx context.Context, item *entity.BudgetItem) error
	UpdateItem(ctx context.Context, item *entity.BudgetItem) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	RemoveAllItems(ctx context.Context, budgetID uuid.UUID) error
}
