package memory

import (
	"context"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionStateCache is a read-through cache in front of the persistent
// session-state repository. Every Save writes through and refreshes the
// cached copy so a single process always reads its own writes.
type SessionStateCache struct {
	inner contract.SessionStateRepository
	cache *cache.Cache
}

func NewSessionStateCache(inner contract.SessionStateRepository) contract.SessionStateRepository {
	// Default expiration of 1 hour, purge expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateCache{
		inner: inner,
		cache: c,
	}
}

func (r *SessionStateCache) FindOne(ctx context.Context, sessionID string) (*entity.SessionState, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.SessionState), nil
	}
	state, err := r.inner.FindOne(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		r.cache.Set(sessionID, state, cache.DefaultExpiration)
	}
	return state, nil
}

func (r *SessionStateCache) Save(ctx context.Context, state *entity.SessionState) error {
	if err := r.inner.Save(ctx, state); err != nil {
		// Drop the stale copy so the next read goes to the source of truth.
		r.cache.Delete(state.SessionID)
		return err
	}
	r.cache.Set(state.SessionID, state, cache.DefaultExpiration)
	return nil
}

func (r *SessionStateCache) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return r.inner.Delete(ctx, sessionID)
}
