package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	// SearchAllTerms returns products matching EVERY term (name, description
	// or keywords), the strict phase of catalog search.
	SearchAllTerms(ctx context.Context, terms []string, limit int) ([]*entity.Product, error)
	// SearchAnyTerm returns products matching AT LEAST one term; ranking by
	// term coverage is done by the caller.
	SearchAnyTerm(ctx context.Context, terms []string, limit int) ([]*entity.Product, error)
	// SearchSemantic ranks products by embedding distance.
	SearchSemantic(ctx context.Context, embedding pgvector.Vector, limit int) ([]*entity.Product, error)
}
