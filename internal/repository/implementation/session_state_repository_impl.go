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

type SessionStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionStateMapper
}

func NewSessionStateRepository(db *gorm.DB) contract.SessionStateRepository {
	return &SessionStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionStateMapper(),
	}
}

func (r *SessionStateRepositoryImpl) FindOne(ctx context.Context, sessionID string) (*entity.SessionState, error) {
	var m model.SessionState
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionStateRepositoryImpl) Save(ctx context.Context, state *entity.SessionState) error {
	m := r.mapper.ToModel(state)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(m).Error; err != nil {
		return err
	}
	*state = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionStateRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.SessionState{}).Error
}
