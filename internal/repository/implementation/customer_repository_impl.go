package implementation

import (
	"context"
	"errors"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/mapper"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CustomerMapper
}

func NewCustomerRepository(db *gorm.DB) contract.CustomerRepository {
	return &CustomerRepositoryImpl{
		db:     db,
		mapper: mapper.NewCustomerMapper(),
	}
}

func (r *CustomerRepositoryImpl) FindBySession(ctx context.Context, sessionID string) (*entity.Customer, error) {
	var m model.Customer
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CustomerRepositoryImpl) Upsert(ctx context.Context, customer *entity.Customer) error {
	m := r.mapper.ToModel(customer)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "phone", "email", "neighborhood", "postal_code", "address", "updated_at",
		}),
	}).Create(m).Error; err != nil {
		return err
	}
	*customer = *r.mapper.ToEntity(m)
	return nil
}
