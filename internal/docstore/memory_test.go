package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productDoc(name string, price float64, categories ...string) Document {
	return Document{
		"name":       name,
		"price":      price,
		"categories": categories,
		"in_stock":   true,
	}
}

func TestMemoryCreateAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	start := time.Now().UTC()
	doc, err := store.Create(ctx, CollectionProduct, productDoc("Vase", 39))
	require.NoError(t, err)

	id := doc.String(FieldID)
	require.NotEmpty(t, id)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	created, updated := doc.Time(FieldCreatedAt), doc.Time(FieldUpdatedAt)
	assert.Equal(t, created, updated)
	assert.False(t, created.Before(start))
}

func TestMemoryCreateIgnoresCallerManagedFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	doc := productDoc("Vase", 39)
	doc[FieldID] = "caller-supplied"
	created, err := store.Create(ctx, CollectionProduct, doc)
	require.NoError(t, err)
	assert.NotEqual(t, "caller-supplied", created.String(FieldID))
}

func TestMemoryCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CollectionProduct, productDoc("Vase", 39, "home decor"))
	require.NoError(t, err)

	got, err := store.Get(ctx, CollectionProduct, created.String(FieldID))
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Vase", got.String("name"))
	assert.Equal(t, 39.0, got.Float("price"))
	assert.Equal(t, []string{"home decor"}, got.Strings("categories"))
}

func TestMemoryUpdatePartial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CollectionProduct, productDoc("Vase", 39, "home decor"))
	require.NoError(t, err)
	id := created.String(FieldID)

	time.Sleep(2 * time.Millisecond)
	updated, err := store.Update(ctx, CollectionProduct, id, Document{"price": 29.0})
	require.NoError(t, err)

	assert.Equal(t, 29.0, updated.Float("price"))
	assert.Equal(t, "Vase", updated.String("name"), "untouched field must survive")
	assert.Equal(t, []string{"home decor"}, updated.Strings("categories"))
	assert.Equal(t, created.Time(FieldCreatedAt), updated.Time(FieldCreatedAt))
	assert.True(t, updated.Time(FieldUpdatedAt).After(created.Time(FieldUpdatedAt)))
}

func TestMemoryUpdateCannotTouchManagedFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CollectionProduct, productDoc("Vase", 39))
	require.NoError(t, err)
	id := created.String(FieldID)

	updated, err := store.Update(ctx, CollectionProduct, id, Document{
		FieldID:        "hijacked",
		FieldCreatedAt: time.Unix(0, 0),
		"price":        19.0,
	})
	require.NoError(t, err)
	assert.Equal(t, id, updated.String(FieldID))
	assert.Equal(t, created.Time(FieldCreatedAt), updated.Time(FieldCreatedAt))
	assert.Equal(t, 19.0, updated.Float("price"))
}

func TestMemoryInvalidIDDistinctFromNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, bad := range []string{"not-a-uuid", "123", ""} {
		_, err := store.Get(ctx, CollectionProduct, bad)
		assert.ErrorIs(t, err, ErrInvalidID, "get %q", bad)
		assert.NotErrorIs(t, err, ErrNotFound)

		_, err = store.Update(ctx, CollectionProduct, bad, Document{"price": 1.0})
		assert.ErrorIs(t, err, ErrInvalidID, "update %q", bad)

		err = store.Delete(ctx, CollectionProduct, bad)
		assert.ErrorIs(t, err, ErrInvalidID, "delete %q", bad)
	}

	absent := uuid.NewString()
	_, err := store.Get(ctx, CollectionProduct, absent)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidID)

	_, err = store.Update(ctx, CollectionProduct, absent, Document{"price": 1.0})
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(ctx, CollectionProduct, absent)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteTwice(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CollectionProduct, productDoc("Vase", 39))
	require.NoError(t, err)
	id := created.String(FieldID)

	require.NoError(t, store.Delete(ctx, CollectionProduct, id))
	err = store.Delete(ctx, CollectionProduct, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, CollectionProduct, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seed := []Document{
		productDoc("Minimalist Ceramic Vase", 39, "home decor"),
		productDoc("Acacia Wood Cutting Board", 29, "kitchen"),
		productDoc("Memory Foam Pet Bed", 59, "pet supplies"),
		productDoc("Wireless Charging Pad", 28, "electronics"),
	}
	for _, doc := range seed {
		_, err := store.Create(ctx, CollectionProduct, doc)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	byName, err := store.List(ctx, CollectionProduct, Filter{}.Contains("vase", "name", "description"), 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Minimalist Ceramic Vase", byName[0].String("name"))

	union, err := store.List(ctx, CollectionProduct, Filter{}.In("categories", "kitchen", "pet supplies"), 0)
	require.NoError(t, err)
	assert.Len(t, union, 2)

	limited, err := store.List(ctx, CollectionProduct, Filter{}, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	all, err := store.List(ctx, CollectionProduct, Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Wireless Charging Pad", all[0].String("name"), "most recent first")
	assert.Equal(t, "Minimalist Ceramic Vase", all[3].String("name"))
}

func TestMemoryListIsStableAcrossReads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 5; i++ {
		_, err := store.Create(ctx, CollectionProduct, productDoc("P", float64(i)))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	ids := func(docs []Document) []string {
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d.String(FieldID)
		}
		return out
	}

	first, err := store.List(ctx, CollectionProduct, Filter{}, 50)
	require.NoError(t, err)
	second, err := store.List(ctx, CollectionProduct, Filter{}, 50)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
}

func TestMemoryDocumentsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	input := productDoc("Vase", 39, "home decor")
	created, err := store.Create(ctx, CollectionProduct, input)
	require.NoError(t, err)
	id := created.String(FieldID)

	// Mutating the caller's input or the returned copy must not leak
	// into the store.
	input["name"] = "changed input"
	created["name"] = "changed output"
	cats := created.Strings("categories")
	if len(cats) > 0 {
		cats[0] = "changed"
	}

	got, err := store.Get(ctx, CollectionProduct, id)
	require.NoError(t, err)
	assert.Equal(t, "Vase", got.String("name"))
	assert.Equal(t, []string{"home decor"}, got.Strings("categories"))
}
