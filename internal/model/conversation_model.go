package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationTurn struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID  string    `gorm:"type:varchar(64);not null;index"`
	Message    string    `gorm:"type:text;not null"`
	Reply      string    `gorm:"type:text;not null"`
	NeedsHuman bool      `gorm:"default:false"`
	Branch     string    `gorm:"type:varchar(64)"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
