package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
)

type SessionStateRepository interface {
	// FindOne returns (nil, nil) when the session has no stored state yet.
	FindOne(ctx context.Context, sessionID string) (*entity.SessionState, error)
	Save(ctx context.Context, state *entity.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}
