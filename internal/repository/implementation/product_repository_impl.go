package implementation

import (
	"context"
	"errors"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/mapper"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// termClause matches a term against name, description or the keywords JSONB
// array. Keywords hold normalized tokens like "cp ii" that never appear in
// the display name verbatim.
const termClause = "(name ILIKE ? OR description ILIKE ? OR keywords::text ILIKE ?)"

func likePattern(term string) string {
	return "%" + term + "%"
}

func (r *ProductRepositoryImpl) SearchAllTerms(ctx context.Context, terms []string, limit int) ([]*entity.Product, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query := r.db.WithContext(ctx).Model(&model.Product{})
	for _, term := range terms {
		p := likePattern(term)
		query = query.Where(termClause, p, p, p)
	}

	var models []*model.Product
	if err := query.Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProductRepositoryImpl) SearchAnyTerm(ctx context.Context, terms []string, limit int) ([]*entity.Product, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	query := r.db.WithContext(ctx).Model(&model.Product{})
	or := r.db.Session(&gorm.Session{NewDB: true})
	for _, term := range terms {
		p := likePattern(term)
		or = or.Or(termClause, p, p, p)
	}
	query = query.Where(or)

	var models []*model.Product
	if err := query.Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProductRepositoryImpl) SearchSemantic(ctx context.Context, embedding pgvector.Vector, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 5
	}

	var models []*model.Product
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Order(gorm.Expr("embedding <=> ?", embedding)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
