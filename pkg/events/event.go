package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published by the chat core.
const (
	TypeOrderCreated = "ORDER_CREATED"
	TypeHumanHandoff = "HUMAN_HANDOFF"
)

// NewOrderCreated is emitted when a budget is finalized into an order so an
// agent can pick it up.
func NewOrderCreated(orderID, sessionID string, total float64) Event {
	return BaseEvent{
		Type: TypeOrderCreated,
		Data: map[string]interface{}{
			"order_id":   orderID,
			"session_id": sessionID,
			"total":      total,
		},
		OccurredAt: time.Now(),
	}
}

// NewHumanHandoff is emitted whenever a turn ends with needs_human set.
func NewHumanHandoff(sessionID, reason string) Event {
	return BaseEvent{
		Type: TypeHumanHandoff,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}
