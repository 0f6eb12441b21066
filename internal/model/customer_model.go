package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID    string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(255)"`
	Phone        string         `gorm:"type:varchar(32)"`
	Email        string         `gorm:"type:varchar(255)"`
	Neighborhood string         `gorm:"type:varchar(128)"`
	PostalCode   string         `gorm:"type:varchar(16)"`
	Address      string         `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Customer) TableName() string {
	return "customers"
}
