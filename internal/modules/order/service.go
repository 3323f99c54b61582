package order

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
	"github.com/indiestorelabs/indiestore-backend/internal/events"
	"github.com/indiestorelabs/indiestore-backend/internal/httpx"
)

// Service defines the order intake business logic.
type Service interface {
	// PlaceOrder validates the payload, computes the total and persists
	// the order in a single write.
	PlaceOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	// ListOrders returns up to limit orders, most recent first.
	ListOrders(ctx context.Context, limit int64) ([]*Order, error)

	// GetOrder retrieves one order by its string id.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// UpdateOrder overwrites only the fields present in the request.
	// Items and the total are fixed at placement time.
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error)

	// DeleteOrder removes an order permanently.
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a new order service. The publisher receives an
// event after every successful create and update; pass a NopPublisher
// to disable eventing.
func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{repo: repo, publisher: publisher, logger: logger}
}

var validate = httpx.NewValidator()

const maxLimit = 200

func (s *service) PlaceOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = DefaultStatus
	}

	var total float64
	for _, it := range req.Items {
		total += it.Price * float64(it.Quantity)
	}

	o := &Order{
		Items:         req.Items,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		Status:        status,
		Total:         round2(total),
	}
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.SubjectOrderCreated, created)
	return created, nil
}

func (s *service) ListOrders(ctx context.Context, limit int64) ([]*Order, error) {
	return s.repo.List(ctx, clampLimit(limit))
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order update: %w", err)
	}
	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.SubjectOrderUpdated, updated)
	return updated, nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// publish emits an order event without ever failing the request.
func (s *service) publish(ctx context.Context, subject string, o *Order) {
	if err := s.publisher.Publish(ctx, subject, o); err != nil {
		s.logger.Warn("order event publish failed",
			"subject", subject, "order_id", o.ID, "error", err)
	}
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

// round2 keeps stored totals at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
