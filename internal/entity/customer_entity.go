package entity

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	Id           uuid.UUID
	SessionID    string
	Name         string
	Phone        string
	Email        string
	Neighborhood string
	PostalCode   string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
