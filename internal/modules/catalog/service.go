package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
	"github.com/indiestorelabs/indiestore-backend/internal/httpx"
)

// Service defines the catalog business logic.
type Service interface {
	// CreateProduct validates the payload, applies defaults and persists it.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)

	// ListProducts returns products matching the query, most recent first.
	ListProducts(ctx context.Context, q ListQuery) ([]*Product, error)

	// GetProduct retrieves one product by its string id.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// UpdateProduct overwrites only the fields present in the request.
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)

	// DeleteProduct removes a product permanently.
	DeleteProduct(ctx context.Context, id string) error

	// ImportProducts creates every valid row parsed from an xlsx sheet.
	ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error)

	// Seed inserts the sample catalog when the store is empty.
	Seed(ctx context.Context) (int, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

var validate = httpx.NewValidator()

const (
	// defaultRating is assigned when a create request omits rating.
	defaultRating = 4.5

	maxLimit = 200
)

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate product: %w", err)
	}

	p := &Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Categories:  req.Categories,
		InStock:     true,
		Rating:      defaultRating,
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	return s.repo.Create(ctx, p)
}

func (s *service) ListProducts(ctx context.Context, q ListQuery) ([]*Product, error) {
	return s.repo.List(ctx, BuildFilter(q.Q, q.Category, q.Categories), clampLimit(q.Limit))
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate product update: %w", err)
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func clampLimit(limit int64) int64 {
	if limit <= 0 {
		return docstore.DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
