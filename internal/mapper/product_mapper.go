package mapper

import (
	"encoding/json"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var attrs map[string]interface{}
	if len(p.Attributes) > 0 {
		_ = json.Unmarshal(p.Attributes, &attrs)
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Keywords:    []string(p.Keywords),
		Attributes:  attrs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var attrs []byte
	if p.Attributes != nil {
		attrs, _ = json.Marshal(p.Attributes)
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Keywords:    p.Keywords,
		Attributes:  attrs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(products))
	for i, p := range products {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
