package model

import (
	"time"

	"gorm.io/datatypes"
)

type SessionState struct {
	SessionID string         `gorm:"type:varchar(64);primaryKey"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (SessionState) TableName() string {
	return "session_states"
}
