package prompt

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
)

// Manager layers prompt bookkeeping over the session state store.
type Manager struct {
	store *state.Store
}

func NewManager(store *state.Store) *Manager {
	return &Manager{store: store}
}

// Pending returns the active prompt, or nil when the session owes nothing.
func (m *Manager) Pending(ctx context.Context, sessionID string) (*Pending, error) {
	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return FromMap(st[state.KeyPendingPrompt]), nil
}

// SetPending replaces the active prompt. Pass nil to clear it.
func (m *Manager) SetPending(ctx context.Context, sessionID string, p *Pending) error {
	var value interface{}
	if p != nil {
		value = p.ToMap()
	}
	_, err := m.store.Patch(ctx, sessionID, map[string]interface{}{
		state.KeyPendingPrompt: value,
	})
	return err
}

// Push parks a prompt on the interruption stack.
func (m *Manager) Push(ctx context.Context, sessionID string, p *Pending) error {
	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	stack, _ := st[state.KeyStateStack].([]interface{})
	stack = append(append([]interface{}{}, stack...), p.ToMap())
	_, err = m.store.Patch(ctx, sessionID, map[string]interface{}{
		state.KeyStateStack: stack,
	})
	return err
}

// Pop removes and returns the most recently parked prompt, or nil when the
// stack is empty.
func (m *Manager) Pop(ctx context.Context, sessionID string) (*Pending, error) {
	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stack, _ := st[state.KeyStateStack].([]interface{})
	if len(stack) == 0 {
		_, err = m.store.Patch(ctx, sessionID, map[string]interface{}{
			state.KeyStateStack: []interface{}{},
		})
		return nil, err
	}

	top := stack[len(stack)-1]
	rest := append([]interface{}{}, stack[:len(stack)-1]...)
	if _, err := m.store.Patch(ctx, sessionID, map[string]interface{}{
		state.KeyStateStack: rest,
	}); err != nil {
		return nil, err
	}
	return FromMap(top), nil
}
