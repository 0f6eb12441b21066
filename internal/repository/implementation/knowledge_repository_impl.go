package implementation

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/mapper"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) Create(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	m := &model.KnowledgeChunk{
		Id:       chunk.Id,
		Topic:    chunk.Topic,
		Question: chunk.Question,
		Answer:   chunk.Answer,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) SearchSemantic(ctx context.Context, embedding pgvector.Vector, limit int) ([]*entity.KnowledgeChunk, error) {
	if limit <= 0 {
		limit = 3
	}
	var models []*model.KnowledgeChunk
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Order(gorm.Expr("embedding <=> ?", embedding)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeRepositoryImpl) SearchKeyword(ctx context.Context, terms []string, limit int) ([]*entity.KnowledgeChunk, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}

	query := r.db.WithContext(ctx).Model(&model.KnowledgeChunk{})
	or := r.db.Session(&gorm.Session{NewDB: true})
	for _, term := range terms {
		p := "%" + term + "%"
		or = or.Or("question ILIKE ? OR answer ILIKE ?", p, p)
	}
	query = query.Where(or)

	var models []*model.KnowledgeChunk
	if err := query.Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
