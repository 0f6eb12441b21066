package mapper

import (
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(k *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if k == nil {
		return nil
	}
	return &entity.KnowledgeChunk{
		Id:        k.Id,
		Topic:     k.Topic,
		Question:  k.Question,
		Answer:    k.Answer,
		CreatedAt: k.CreatedAt,
	}
}

func (m *KnowledgeMapper) ToEntities(chunks []*model.KnowledgeChunk) []*entity.KnowledgeChunk {
	entities := make([]*entity.KnowledgeChunk, len(chunks))
	for i, k := range chunks {
		entities[i] = m.ToEntity(k)
	}
	return entities
}
