package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Budget struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID string         `gorm:"type:varchar(64);not null;index"`
	Status    string         `gorm:"type:varchar(16);not null;default:'open';index"`
	Items     []*BudgetItem  `gorm:"foreignKey:BudgetId"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Budget) TableName() string {
	return "budgets"
}

type BudgetItem struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetId  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductId uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Unit      string    `gorm:"type:varchar(64);not null"`
	UnitPrice float64   `gorm:"type:numeric(12,2);not null"`
	Quantity  float64   `gorm:"type:numeric(12,3);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (BudgetItem) TableName() string {
	return "budget_items"
}
