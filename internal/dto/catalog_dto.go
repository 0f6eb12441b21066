package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=2,max=200"`
	Category    string                 `json:"category" validate:"required,min=2,max=100"`
	Description string                 `json:"description" validate:"max=2000"`
	Unit        string                 `json:"unit" validate:"required,min=1,max=50"`
	UnitPrice   float64                `json:"unit_price" validate:"required,gt=0"`
	Keywords    []string               `json:"keywords" validate:"max=30,dive,min=1,max=50"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

type UpdateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=2,max=200"`
	Category    string                 `json:"category" validate:"required,min=2,max=100"`
	Description string                 `json:"description" validate:"max=2000"`
	Unit        string                 `json:"unit" validate:"required,min=1,max=50"`
	UnitPrice   float64                `json:"unit_price" validate:"required,gt=0"`
	Keywords    []string               `json:"keywords" validate:"max=30,dive,min=1,max=50"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

type ProductResponse struct {
	Id          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Category    string                 `json:"category"`
	Description string                 `json:"description,omitempty"`
	Unit        string                 `json:"unit"`
	UnitPrice   float64                `json:"unit_price"`
	Keywords    []string               `json:"keywords,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

type CreateKnowledgeChunkRequest struct {
	Topic    string `json:"topic" validate:"required,min=2,max=100"`
	Question string `json:"question" validate:"required,min=5,max=500"`
	Answer   string `json:"answer" validate:"required,min=5,max=4000"`
}

type KnowledgeChunkResponse struct {
	Id       uuid.UUID `json:"id"`
	Topic    string    `json:"topic"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}
