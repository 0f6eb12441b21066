package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID
	Name        string
	Category    string
	Description string
	Unit        string // sellable unit: "bag 50kg", "liter 18l", "m3", "unit"
	UnitPrice   float64
	Keywords    []string // normalized search tokens ("cement", "cp ii", ...)
	Attributes  map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
