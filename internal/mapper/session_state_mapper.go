package mapper

import (
	"encoding/json"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type SessionStateMapper struct{}

func NewSessionStateMapper() *SessionStateMapper {
	return &SessionStateMapper{}
}

func (m *SessionStateMapper) ToEntity(s *model.SessionState) *entity.SessionState {
	if s == nil {
		return nil
	}

	var st map[string]interface{}
	if len(s.State) > 0 {
		// corrupt rows decode to an empty map and get re-defaulted upstream
		_ = json.Unmarshal(s.State, &st)
	}
	if st == nil {
		st = map[string]interface{}{}
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.SessionState{
		SessionID: s.SessionID,
		State:     st,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SessionStateMapper) ToModel(s *entity.SessionState) *model.SessionState {
	if s == nil {
		return nil
	}

	raw, err := json.Marshal(s.State)
	if err != nil {
		raw = []byte("{}")
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.SessionState{
		SessionID: s.SessionID,
		State:     raw,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
