package mapper

import (
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type BudgetMapper struct{}

func NewBudgetMapper() *BudgetMapper {
	return &BudgetMapper{}
}

func (m *BudgetMapper) ToEntity(b *model.Budget) *entity.Budget {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	items := make([]*entity.BudgetItem, len(b.Items))
	for i, it := range b.Items {
		items[i] = m.ItemToEntity(it)
	}

	return &entity.Budget{
		Id:        b.Id,
		SessionID: b.SessionID,
		Status:    b.Status,
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *BudgetMapper) ToModel(b *entity.Budget) *model.Budget {
	if b == nil {
		return nil
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	items := make([]*model.BudgetItem, len(b.Items))
	for i, it := range b.Items {
		items[i] = m.ItemToModel(it)
	}

	return &model.Budget{
		Id:        b.Id,
		SessionID: b.SessionID,
		Status:    b.Status,
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *BudgetMapper) ItemToEntity(it *model.BudgetItem) *entity.BudgetItem {
	if it == nil {
		return nil
	}
	return &entity.BudgetItem{
		Id:        it.Id,
		BudgetId:  it.BudgetId,
		ProductId: it.ProductId,
		Name:      it.Name,
		Unit:      it.Unit,
		UnitPrice: it.UnitPrice,
		Quantity:  it.Quantity,
		CreatedAt: it.CreatedAt,
	}
}

func (m *BudgetMapper) ItemToModel(it *entity.BudgetItem) *model.BudgetItem {
	if it == nil {
		return nil
	}
	return &model.BudgetItem{
		Id:        it.Id,
		BudgetId:  it.BudgetId,
		ProductId: it.ProductId,
		Name:      it.Name,
		Unit:      it.Unit,
		UnitPrice: it.UnitPrice,
		Quantity:  it.Quantity,
		CreatedAt: it.CreatedAt,
	}
}
