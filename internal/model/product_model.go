package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string                      `gorm:"type:varchar(255);not null"`
	Category    string                      `gorm:"type:varchar(64);not null;index"`
	Description string                      `gorm:"type:text"`
	Unit        string                      `gorm:"type:varchar(64);not null"`
	UnitPrice   float64                     `gorm:"type:numeric(12,2);not null"`
	Keywords    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Attributes  datatypes.JSON              `gorm:"type:jsonb"`
	Embedding   pgvector.Vector             `gorm:"type:vector(768)"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
