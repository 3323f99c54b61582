package order

import (
	"context"
	"fmt"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

type storeRepo struct{ store docstore.Store }

// NewStoreRepository persists orders through the document store.
func NewStoreRepository(store docstore.Store) Repository {
	return &storeRepo{store: store}
}

func (r *storeRepo) Create(ctx context.Context, o *Order) (*Order, error) {
	doc, err := r.store.Create(ctx, docstore.CollectionOrder, orderDoc(o))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return orderFromDoc(doc), nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionOrder, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return orderFromDoc(doc), nil
}

func (r *storeRepo) List(ctx context.Context, limit int64) ([]*Order, error) {
	docs, err := r.store.List(ctx, docstore.CollectionOrder, docstore.Filter{}, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]*Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, orderFromDoc(doc))
	}
	return orders, nil
}

func (r *storeRepo) Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error) {
	fields := updateFields(req)
	if len(fields) == 0 {
		// Nothing to write; hand back the current record.
		return r.GetByID(ctx, id)
	}
	doc, err := r.store.Update(ctx, docstore.CollectionOrder, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return orderFromDoc(doc), nil
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, docstore.CollectionOrder, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// orderDoc flattens an order, items included, into one document. The
// store owns the id and both timestamps.
func orderDoc(o *Order) docstore.Document {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"price":      it.Price,
		})
	}
	return docstore.Document{
		"items":          items,
		"customer_name":  o.CustomerName,
		"customer_email": o.CustomerEmail,
		"address":        o.Address,
		"status":         o.Status,
		"total":          o.Total,
	}
}

// orderFromDoc rebuilds a typed order from a stored document.
func orderFromDoc(doc docstore.Document) *Order {
	o := &Order{
		ID:            doc.String(docstore.FieldID),
		Items:         itemsFromDoc(doc["items"]),
		CustomerName:  doc.String("customer_name"),
		CustomerEmail: doc.String("customer_email"),
		Address:       doc.String("address"),
		Status:        doc.String("status"),
		Total:         doc.Float("total"),
		CreatedAt:     doc.Time(docstore.FieldCreatedAt),
		UpdatedAt:     doc.Time(docstore.FieldUpdatedAt),
	}
	return o
}

func itemsFromDoc(v any) []OrderItem {
	raw, ok := v.([]any)
	if !ok {
		return []OrderItem{}
	}
	items := make([]OrderItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		d := docstore.Document(m)
		items = append(items, OrderItem{
			ProductID: d.String("product_id"),
			Quantity:  d.Int("quantity"),
			Price:     d.Float("price"),
		})
	}
	return items
}

// updateFields keeps only the fields the caller actually supplied.
func updateFields(req UpdateOrderRequest) docstore.Document {
	fields := docstore.Document{}
	if req.CustomerName != nil {
		fields["customer_name"] = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		fields["customer_email"] = *req.CustomerEmail
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	return fields
}
