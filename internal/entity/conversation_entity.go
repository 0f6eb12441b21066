package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one inbound message and the reply it produced,
// logged best-effort after every turn.
type ConversationTurn struct {
	Id         uuid.UUID
	SessionID  string
	Message    string
	Reply      string
	NeedsHuman bool
	Branch     string // which orchestrator stage produced the reply
	CreatedAt  time.Time
}
