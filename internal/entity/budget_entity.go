package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	BudgetStatusOpen   = "open"
	BudgetStatusClosed = "closed"
)

// Budget is the in-progress quote a session builds up before checkout.
// At most one open budget exists per session.
type Budget struct {
	Id        uuid.UUID
	SessionID string
	Status    string
	Items     []*BudgetItem
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type BudgetItem struct {
	Id        uuid.UUID
	BudgetId  uuid.UUID
	ProductId uuid.UUID
	Name      string
	Unit      string
	UnitPrice float64
	Quantity  float64
	CreatedAt time.Time
}

func (b *Budget) Total() float64 {
	var total float64
	for _, it := range b.Items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}
