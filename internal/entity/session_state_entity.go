package entity

import "time"

// SessionState is the raw persisted dialogue state for one user session.
// The value map is schemaless on purpose; defaults are merged on read by
// the dialogue state store.
type SessionState struct {
	SessionID string
	State     map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
}
