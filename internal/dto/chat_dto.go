package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required,min=1,max=128"`
	Message   string `json:"message" validate:"required,min=1,max=2000"`
}

type SendMessageResponse struct {
	SessionId  string `json:"session_id"`
	Reply      string `json:"reply"`
	NeedsHuman bool   `json:"needs_human"`
}

type ConversationTurnResponse struct {
	Id         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	Reply      string    `json:"reply"`
	NeedsHuman bool      `json:"needs_human"`
	Branch     string    `json:"branch"`
	CreatedAt  time.Time `json:"created_at"`
}

type ResetSessionResponse struct {
	SessionId string `json:"session_id"`
}
