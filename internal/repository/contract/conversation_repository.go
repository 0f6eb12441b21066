package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, turn *entity.ConversationTurn) error
	FindRecentBySession(ctx context.Context, sessionID string, limit int) ([]*entity.ConversationTurn, error)
}
