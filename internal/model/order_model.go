package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID      string         `gorm:"type:varchar(64);not null;index"`
	CustomerId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	BudgetId       uuid.UUID      `gorm:"type:uuid;not null"`
	Status         string         `gorm:"type:varchar(32);not null;default:'pending_handoff'"`
	DeliveryPref   string         `gorm:"type:varchar(16)"`
	PaymentMethod  string         `gorm:"type:varchar(16)"`
	DeliveryTarget string         `gorm:"type:text"`
	Total          float64        `gorm:"type:numeric(12,2);not null"`
	Items          []*OrderItem   `gorm:"foreignKey:OrderId"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductId uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Unit      string    `gorm:"type:varchar(64);not null"`
	UnitPrice float64   `gorm:"type:numeric(12,2);not null"`
	Quantity  float64   `gorm:"type:numeric(12,3);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
