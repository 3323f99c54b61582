package catalog

import "time"

// Product is a storefront catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Categories  []string  `json:"categories"`
	InStock     bool      `json:"in_stock"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for adding a product. InStock and
// Rating are pointers so an omitted field is distinct from a zero value;
// omitted means in stock with the default rating.
type CreateProductRequest struct {
	Name        string   `json:"name" yaml:"name" validate:"required,min=2,max=120"`
	Description string   `json:"description" yaml:"description" validate:"max=1000"`
	Price       float64  `json:"price" yaml:"price" validate:"gte=0"`
	Images      []string `json:"images" yaml:"images"`
	Categories  []string `json:"categories" yaml:"categories"`
	InStock     *bool    `json:"in_stock" yaml:"in_stock"`
	Rating      *float64 `json:"rating" yaml:"rating" validate:"omitempty,gte=0,lte=5"`
}

// UpdateProductRequest carries a partial update. Only non-nil fields are
// written; everything else keeps its stored value.
type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
	InStock     *bool     `json:"in_stock,omitempty"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// ListQuery carries the supported catalog list parameters.
type ListQuery struct {
	Q          string
	Category   string
	Categories string
	Limit      int64
}

// ImportResult reports what a bulk import did.
type ImportResult struct {
	Imported int        `json:"imported"`
	Products []*Product `json:"products"`
	Errors   []string   `json:"errors,omitempty"`
}
