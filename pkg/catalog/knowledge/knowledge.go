// Package knowledge answers open product questions ("does this work for a
// slab?") from the FAQ corpus, preferring semantic lookup when an embedder
// is wired and degrading to keyword search otherwise.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/search"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"

	"github.com/pgvector/pgvector-go"
)

// Embedder turns text into a query vector. Optional; pass nil to run on
// keyword lookup only.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Service struct {
	repo     contract.KnowledgeRepository
	embedder Embedder
}

func NewService(repo contract.KnowledgeRepository, embedder Embedder) *Service {
	return &Service{repo: repo, embedder: embedder}
}

const notFoundReply = "I couldn't find specific information about that in my catalog. " +
	"Can I help you find a product? Tell me what you need."

// Answer resolves an open question, optionally scoped by a product the
// conversation already mentioned. Lookup failures degrade to the not-found
// reply, never to an error.
func (s *Service) Answer(ctx context.Context, question, contextProduct string) string {
	query := question
	if contextProduct != "" {
		query = contextProduct + " " + question
	}

	chunks := s.lookup(ctx, query)
	if len(chunks) == 0 {
		return notFoundReply
	}

	best := chunks[0]
	reply := best.Answer
	if len(chunks) > 1 {
		reply += "\n\nRelated: " + chunks[1].Question
	}
	return reply
}

func (s *Service) lookup(ctx context.Context, query string) []*entity.KnowledgeChunk {
	if s.embedder != nil {
		if vec, err := s.embedder.Embed(ctx, query); err == nil {
			if chunks, err := s.repo.SearchSemantic(ctx, pgvector.NewVector(vec), 3); err == nil && len(chunks) > 0 {
				return chunks
			}
		}
	}

	chunks, err := s.repo.SearchKeyword(ctx, search.Terms(query), 3)
	if err != nil {
		return nil
	}
	return chunks
}

// IsConsultiveQuestion reports whether a message reads as an open technical
// question rather than an order.
func IsConsultiveQuestion(message string) bool {
	t := textnorm.Norm(message)
	markers := []string{
		"does it work", "can i use", "is it good", "which is better",
		"whats the difference", "what is the difference", "how do i",
		"recommend", "suited", "suitable",
	}
	for _, m := range markers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return strings.Contains(message, "?") &&
		(strings.Contains(t, "which") || strings.Contains(t, "what") || strings.Contains(t, "how"))
}

// FormatProductFallback is used when the FAQ had nothing but the catalog
// did: it lists the related items so the customer can move forward.
func FormatProductFallback(products []*entity.Product) string {
	if len(products) == 0 {
		return notFoundReply
	}
	names := make([]string, 0, 2)
	for i, p := range products {
		if i == 2 {
			break
		}
		names = append(names, p.Name)
	}
	return fmt.Sprintf(
		"I found some related products: %s. Tell me more about what you need and I'll help you pick.",
		strings.Join(names, ", "),
	)
}
