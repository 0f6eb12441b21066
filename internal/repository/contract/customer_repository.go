package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
)

type CustomerRepository interface {
	// FindBySession returns (nil, nil) when the session has no customer yet.
	FindBySession(ctx context.Context, sessionID string) (*entity.Customer, error)
	// Upsert creates or updates the session's customer record.
	Upsert(ctx context.Context, customer *entity.Customer) error
}
