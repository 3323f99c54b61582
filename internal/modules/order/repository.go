package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// Create persists a new order, items included, as one record.
	Create(ctx context.Context, o *Order) (*Order, error)

	// GetByID retrieves an order by its string id.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List returns up to limit orders, most recent first.
	List(ctx context.Context, limit int64) ([]*Order, error)

	// Update applies the non-nil fields of req to the stored order.
	Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error)

	// Delete removes an order permanently.
	Delete(ctx context.Context, id string) error
}
