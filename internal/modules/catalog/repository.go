package catalog

import (
	"context"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

// Repository is the persistence boundary for products.
type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f docstore.Filter, limit int64) ([]*Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}
