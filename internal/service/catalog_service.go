package service

import (
	"context"
	"time"

	"github.com/Rouggerxavier/projeto-chatbot/internal/dto"
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ICatalogService is the admin surface for the product catalog and the
// FAQ corpus the assistant answers from.
type ICatalogService interface {
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetAllProducts(ctx context.Context) ([]*dto.ProductResponse, error)
	CreateKnowledgeChunk(ctx context.Context, req *dto.CreateKnowledgeChunkRequest) (*dto.KnowledgeChunkResponse, error)
}

type catalogService struct {
	productRepository   contract.ProductRepository
	knowledgeRepository contract.KnowledgeRepository
}

func NewCatalogService(
	productRepository contract.ProductRepository,
	knowledgeRepository contract.KnowledgeRepository,
) ICatalogService {
	return &catalogService{
		productRepository:   productRepository,
		knowledgeRepository: knowledgeRepository,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Id:          uuid.New(),
		Name:        req.Name,
		Category:    textnorm.Norm(req.Category),
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Keywords:    normalizeKeywords(req.Keywords),
		Attributes:  req.Attributes,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepository.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	now := time.Now()
	product.Name = req.Name
	product.Category = textnorm.Norm(req.Category)
	product.Description = req.Description
	product.Unit = req.Unit
	product.UnitPrice = req.UnitPrice
	product.Keywords = normalizeKeywords(req.Keywords)
	product.Attributes = req.Attributes
	product.UpdatedAt = &now

	if err := s.productRepository.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if product == nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return s.productRepository.Delete(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return toProductResponse(product), nil
}

func (s *catalogService) GetAllProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	products, err := s.productRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, nil
}

func (s *catalogService) CreateKnowledgeChunk(ctx context.Context, req *dto.CreateKnowledgeChunkRequest) (*dto.KnowledgeChunkResponse, error) {
	chunk := &entity.KnowledgeChunk{
		Id:        uuid.New(),
		Topic:     textnorm.Norm(req.Topic),
		Question:  req.Question,
		Answer:    req.Answer,
		CreatedAt: time.Now(),
	}
	if err := s.knowledgeRepository.Create(ctx, chunk); err != nil {
		return nil, err
	}
	return &dto.KnowledgeChunkResponse{
		Id:       chunk.Id,
		Topic:    chunk.Topic,
		Question: chunk.Question,
		Answer:   chunk.Answer,
	}, nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if n := textnorm.Norm(k); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Keywords:    p.Keywords,
		Attributes:  p.Attributes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
