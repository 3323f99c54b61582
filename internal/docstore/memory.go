package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process engine used by tests and for running
// without external services. Ids are UUID strings. Documents are deep
// copied on the way in and out so callers never share state with the
// store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	now := time.Now().UTC()
	stored := doc.Clone()
	stored[FieldID] = uuid.NewString()
	stored[FieldCreatedAt] = now
	stored[FieldUpdatedAt] = now

	s.mu.Lock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	coll[stored.String(FieldID)] = stored
	s.mu.Unlock()

	return stored.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, f Filter, limit int64) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	docs := make([]Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		if f.Matches(doc) {
			docs = append(docs, doc.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		ti, tj := docs[i].Time(FieldCreatedAt), docs[j].Time(FieldCreatedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return docs[i].String(FieldID) > docs[j].String(FieldID)
	})
	if int64(len(docs)) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if _, err := parseUUID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) (Document, error) {
	if _, err := parseUUID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}

	patch := fields.Clone()
	delete(patch, FieldID)
	delete(patch, FieldCreatedAt)
	delete(patch, FieldUpdatedAt)
	for k, v := range patch {
		doc[k] = v
	}
	doc[FieldUpdatedAt] = time.Now().UTC()

	return doc.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := parseUUID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
