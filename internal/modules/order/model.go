package order

import "time"

// DefaultStatus is assigned when an order is placed without one. Status is
// an open string; callers may move orders through whatever workflow states
// their storefront uses.
const DefaultStatus = "pending"

// Order is a customer order with its line items embedded in the same
// record, so placement is a single write.
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Address       string      `json:"address"`
	Status        string      `json:"status"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order. Price is the unit price the
// customer saw at checkout; the stored order never shifts with later
// catalog edits.
type OrderItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
	CustomerName  string      `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerEmail string      `json:"customer_email" validate:"required,email"`
	Address       string      `json:"address" validate:"required,min=5,max=500"`
	Status        string      `json:"status" validate:"omitempty,max=40"`
}

// UpdateOrderRequest carries a partial update. Only non-nil fields are
// written; items and the computed total are immutable after placement.
type UpdateOrderRequest struct {
	CustomerName  *string `json:"customer_name,omitempty" validate:"omitempty,min=2,max=120"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty" validate:"omitempty,min=5,max=500"`
	Status        *string `json:"status,omitempty" validate:"omitempty,min=1,max=40"`
}
