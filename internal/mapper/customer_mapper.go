package mapper

import (
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type CustomerMapper struct{}

func NewCustomerMapper() *CustomerMapper {
	return &CustomerMapper{}
}

func (m *CustomerMapper) ToEntity(c *model.Customer) *entity.Customer {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Customer{
		Id:           c.Id,
		SessionID:    c.SessionID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Neighborhood: c.Neighborhood,
		PostalCode:   c.PostalCode,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CustomerMapper) ToModel(c *entity.Customer) *model.Customer {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Customer{
		Id:           c.Id,
		SessionID:    c.SessionID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Neighborhood: c.Neighborhood,
		PostalCode:   c.PostalCode,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
