package contract

import (
	"context"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeRepository interface {
	Create(ctx context.Context, chunk *entity.KnowledgeChunk) error
	// SearchSemantic ranks chunks by embedding distance to the query vector.
	SearchSemantic(ctx context.Context, embedding pgvector.Vector, limit int) ([]*entity.KnowledgeChunk, error)
	// SearchKeyword is the fallback lookup when no embedder is configured.
	SearchKeyword(ctx context.Context, terms []string, limit int) ([]*entity.KnowledgeChunk, error)
}
