package catalog

import (
	"context"
	"fmt"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

type storeRepo struct{ store docstore.Store }

// NewStoreRepository persists products through the document store.
func NewStoreRepository(store docstore.Store) Repository {
	return &storeRepo{store: store}
}

func (r *storeRepo) Create(ctx context.Context, p *Product) (*Product, error) {
	doc, err := r.store.Create(ctx, docstore.CollectionProduct, productDoc(p))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return productFromDoc(doc), nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionProduct, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return productFromDoc(doc), nil
}

func (r *storeRepo) List(ctx context.Context, f docstore.Filter, limit int64) ([]*Product, error) {
	docs, err := r.store.List(ctx, docstore.CollectionProduct, f, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]*Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, productFromDoc(doc))
	}
	return products, nil
}

func (r *storeRepo) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	fields := updateFields(req)
	if len(fields) == 0 {
		// Nothing to write; hand back the current record.
		return r.GetByID(ctx, id)
	}
	doc, err := r.store.Update(ctx, docstore.CollectionProduct, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return productFromDoc(doc), nil
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, docstore.CollectionProduct, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// productDoc flattens a product into a schemaless document. The store
// owns the id and both timestamps.
func productDoc(p *Product) docstore.Document {
	return docstore.Document{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"images":      p.Images,
		"categories":  p.Categories,
		"in_stock":    p.InStock,
		"rating":      p.Rating,
	}
}

// productFromDoc rebuilds a typed product from a stored document.
func productFromDoc(doc docstore.Document) *Product {
	images := doc.Strings("images")
	if images == nil {
		images = []string{}
	}
	categories := doc.Strings("categories")
	if categories == nil {
		categories = []string{}
	}
	return &Product{
		ID:          doc.String(docstore.FieldID),
		Name:        doc.String("name"),
		Description: doc.String("description"),
		Price:       doc.Float("price"),
		Images:      images,
		Categories:  categories,
		InStock:     doc.Bool("in_stock"),
		Rating:      doc.Float("rating"),
		CreatedAt:   doc.Time(docstore.FieldCreatedAt),
		UpdatedAt:   doc.Time(docstore.FieldUpdatedAt),
	}
}

// updateFields keeps only the fields the caller actually supplied.
func updateFields(req UpdateProductRequest) docstore.Document {
	fields := docstore.Document{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Images != nil {
		fields["images"] = *req.Images
	}
	if req.Categories != nil {
		fields["categories"] = *req.Categories
	}
	if req.InStock != nil {
		fields["in_stock"] = *req.InStock
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	return fields
}
