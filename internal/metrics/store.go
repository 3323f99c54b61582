package metrics

import (
	"context"
	"errors"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

// instrumentedStore counts every document store operation. Ping and Close
// pass through via the embedded Store.
type instrumentedStore struct {
	docstore.Store
}

// InstrumentStore wraps a store so its operations show up in /metrics.
func InstrumentStore(s docstore.Store) docstore.Store {
	return &instrumentedStore{Store: s}
}

func (s *instrumentedStore) Create(ctx context.Context, collection string, doc docstore.Document) (docstore.Document, error) {
	out, err := s.Store.Create(ctx, collection, doc)
	storeOps.WithLabelValues(collection, "create", result(err)).Inc()
	return out, err
}

func (s *instrumentedStore) List(ctx context.Context, collection string, f docstore.Filter, limit int64) ([]docstore.Document, error) {
	out, err := s.Store.List(ctx, collection, f, limit)
	storeOps.WithLabelValues(collection, "list", result(err)).Inc()
	return out, err
}

func (s *instrumentedStore) Get(ctx context.Context, collection string, id string) (docstore.Document, error) {
	out, err := s.Store.Get(ctx, collection, id)
	storeOps.WithLabelValues(collection, "get", result(err)).Inc()
	return out, err
}

func (s *instrumentedStore) Update(ctx context.Context, collection string, id string, fields docstore.Document) (docstore.Document, error) {
	out, err := s.Store.Update(ctx, collection, id, fields)
	storeOps.WithLabelValues(collection, "update", result(err)).Inc()
	return out, err
}

func (s *instrumentedStore) Delete(ctx context.Context, collection string, id string) error {
	err := s.Store.Delete(ctx, collection, id)
	storeOps.WithLabelValues(collection, "delete", result(err)).Inc()
	return err
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, docstore.ErrNotFound):
		return "not_found"
	case errors.Is(err, docstore.ErrInvalidID):
		return "invalid_id"
	default:
		return "error"
	}
}
