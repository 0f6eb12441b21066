package state

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
)

// Store is the session-state facade the rest of the system talks to.
// Reads always come back default-merged; writes are last-write-wins.
type Store struct {
	repo contract.SessionStateRepository
}

func NewStore(repo contract.SessionStateRepository) *Store {
	return &Store{repo: repo}
}

// Get returns the session's state, creating the default row on first
// contact.
func (s *Store) Get(ctx context.Context, sessionID string) (map[string]interface{}, error) {
	row, err := s.repo.FindOne(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &entity.SessionState{
			SessionID: sessionID,
			State:     Defaults(),
		}
		if err := s.repo.Save(ctx, row); err != nil {
			return nil, err
		}
	}
	return MergeDefaults(row.State), nil
}

// Patch applies the updates over the stored state and returns the merged
// result.
func (s *Store) Patch(ctx context.Context, sessionID string, updates map[string]interface{}) (map[string]interface{}, error) {
	row, err := s.repo.FindOne(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &entity.SessionState{
			SessionID: sessionID,
			State:     Defaults(),
		}
	}

	st := MergeDefaults(row.State)
	for k, v := range updates {
		st[k] = v
	}
	row.State = st

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}
	return MergeDefaults(row.State), nil
}

// Reset restores the full default state.
func (s *Store) Reset(ctx context.Context, sessionID string) error {
	row := &entity.SessionState{
		SessionID: sessionID,
		State:     Defaults(),
	}
	return s.repo.Save(ctx, row)
}

// ResetConsultiveContext clears only the investigation fields, preserving
// customer data, checkout progress and the cart. Called whenever a new
// generic request arrives or the user changes topic, so stale technical
// context never leaks into a fresh question.
func (s *Store) ResetConsultiveContext(ctx context.Context, sessionID string) error {
	_, err := s.Patch(ctx, sessionID, consultiveResetFields())
	return err
}
