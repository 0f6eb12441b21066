package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPendingHandoff = "pending_handoff"
	OrderStatusConfirmed      = "confirmed"
)

// Order is a finalized budget plus delivery and payment choices, awaiting
// a human agent to confirm.
type Order struct {
	Id             uuid.UUID
	SessionID      string
	CustomerId     uuid.UUID
	BudgetId       uuid.UUID
	Status         string
	DeliveryPref   string // "delivery" or "pickup"
	PaymentMethod  string // "pix", "card", "cash"
	DeliveryTarget string // address, or "pickup at store"
	Total          float64
	Items          []*OrderItem
	CreatedAt      time.Time
}

type OrderItem struct {
	Id        uuid.UUID
	OrderId   uuid.UUID
	ProductId uuid.UUID
	Name      string
	Unit      string
	UnitPrice float64
	Quantity  float64
}
