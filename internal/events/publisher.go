// Package events publishes domain events to NATS when a broker is
// configured. Without one the service runs unchanged; publishing is
// always best effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Subjects emitted by the service.
const (
	SubjectOrderCreated = "orders.created"
	SubjectOrderUpdated = "orders.updated"
)

// Publisher emits JSON-encoded domain events.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// NATSPublisher publishes over a NATS connection.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

var _ Publisher = (*NATSPublisher)(nil)

// Connect dials NATS. The connection name shows up in server monitoring.
func Connect(url string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("indiestore-api"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

// Publish marshals v and publishes it on subject. A nil receiver or
// connection is a no-op so callers degrade gracefully without a broker.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	if p == nil || p.nc == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection, flushing buffered publishes.
func (p *NATSPublisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
	}
}

// NopPublisher drops every event. Used when NATS_URL is not configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
