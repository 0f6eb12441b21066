package mapper

import (
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}
	return &entity.ConversationTurn{
		Id:         t.Id,
		SessionID:  t.SessionID,
		Message:    t.Message,
		Reply:      t.Reply,
		NeedsHuman: t.NeedsHuman,
		Branch:     t.Branch,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}
	return &model.ConversationTurn{
		Id:         t.Id,
		SessionID:  t.SessionID,
		Message:    t.Message,
		Reply:      t.Reply,
		NeedsHuman: t.NeedsHuman,
		Branch:     t.Branch,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *ConversationMapper) ToEntities(turns []*model.ConversationTurn) []*entity.ConversationTurn {
	entities := make([]*entity.ConversationTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
