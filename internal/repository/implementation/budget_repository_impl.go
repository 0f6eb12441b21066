package implementation

import (
	"context"
	"errors"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/mapper"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BudgetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BudgetMapper
}

func NewBudgetRepository(db *gorm.DB) contract.BudgetRepository {
	return &BudgetRepositoryImpl{
		db:     db,
		mapper: mapper.NewBudgetMapper(),
	}
}

func (r *BudgetRepositoryImpl) Create(ctx context.Context, budget *entity.Budget) error {
	m := r.mapper.ToModel(budget)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*budget = *r.mapper.ToEntity(m)
	return nil
}

func (r *BudgetRepositoryImpl) Update(ctx context.Context, budget *entity.Budget) error {
	m := r.mapper.ToModel(budget)
	// items are managed through the item methods
	if err := r.db.WithContext(ctx).Omit("Items").Save(m).Error; err != nil {
		return err
	}
	return nil
}

func (r *BudgetRepositoryImpl) FindOpenBySession(ctx context.Context, sessionID string) (*entity.Budget, error) {
	var m model.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("budget_items.created_at ASC")
		}).
		Where("session_id = ? AND status = ?", sessionID, entity.BudgetStatusOpen).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BudgetRepositoryImpl) AddItem(ctx context.Context, item *entity.BudgetItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *BudgetRepositoryImpl) UpdateItem(ctx context.Context, item *entity.BudgetItem) error {
	m := r.mapper.ItemToModel(item)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *BudgetRepositoryImpl) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.BudgetItem{}, itemID).Error
}

func (r *BudgetRepositoryImpl) RemoveAllItems(ctx context.Context, budgetID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("budget_id = ?", budgetID).Delete(&model.BudgetItem{}).Error
}
