// Package docstore provides collection-agnostic document persistence:
// create/read/update/delete/list over named collections with uniform
// identifier and timestamp handling. Three engines implement the Store
// interface: MongoDB, Postgres (jsonb) and an in-process memory store.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collections used by the service.
const (
	CollectionProduct = "product"
	CollectionOrder   = "order"
)

// Fields every engine manages itself. Caller-supplied values under these
// keys are discarded on create and update.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// DefaultLimit caps list results when the caller passes limit <= 0.
const DefaultLimit int64 = 50

var (
	// ErrUnavailable means there is no usable backing connection.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrInvalidID means the id string is not a valid encoded identifier
	// for the engine in use. Distinct from ErrNotFound: callers map the
	// two to different statuses.
	ErrInvalidID = errors.New("invalid document id")

	// ErrNotFound means the id was well formed but nothing matched.
	ErrNotFound = errors.New("document not found")
)

// Store is the persistence boundary shared by every resource. Engines
// assign ids, keep created_at immutable and refresh updated_at on every
// mutation; created_at equals updated_at right after a create.
type Store interface {
	// Create inserts doc and returns the persisted document, including
	// its id and both timestamps.
	Create(ctx context.Context, collection string, doc Document) (Document, error)

	// List returns documents matching f, most recent first, at most
	// limit of them (DefaultLimit when limit <= 0).
	List(ctx context.Context, collection string, f Filter, limit int64) ([]Document, error)

	// Get returns the document with the given id.
	Get(ctx context.Context, collection string, id string) (Document, error)

	// Update overwrites only the supplied fields and returns the full
	// updated document.
	Update(ctx context.Context, collection string, id string, fields Document) (Document, error)

	// Delete removes the document with the given id.
	Delete(ctx context.Context, collection string, id string) error

	// Ping probes the backing connection.
	Ping(ctx context.Context) error

	// Close releases the backing connection.
	Close(ctx context.Context) error
}

// Document is one schemaless record. Engines normalize values on the way
// out: the id is a string under "id", timestamps are UTC time.Time and
// arrays are []any or []string.
type Document map[string]any

// Clone returns a deep copy covering the value shapes documents hold
// (nested maps, []any, []string). Other values are copied as-is.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// String returns the field as a string, or "" when absent or not one.
func (d Document) String(key string) string {
	v, _ := d[key].(string)
	return v
}

// Float returns the field as a float64, coercing the integer widths the
// engines hand back.
func (d Document) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns the field as an int, coercing engine numeric types.
func (d Document) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the field as a bool, or false when absent or not one.
func (d Document) Bool(key string) bool {
	v, _ := d[key].(bool)
	return v
}

// Time returns the field as a UTC time.Time, or the zero time.
func (d Document) Time(key string) time.Time {
	if v, ok := d[key].(time.Time); ok {
		return v.UTC()
	}
	return time.Time{}
}

// Strings returns the field as a string slice, accepting both []string
// and the []any the engines decode into. Non-string elements are dropped.
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// parseUUID is the id scheme shared by the postgres and memory engines.
func parseUUID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return uid, nil
}
