package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
	"github.com/indiestorelabs/indiestore-backend/internal/events"
	"github.com/indiestorelabs/indiestore-backend/internal/modules/catalog"
	"github.com/indiestorelabs/indiestore-backend/internal/modules/order"
)

func testRouter(t *testing.T, store docstore.Store) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogService := catalog.NewService(catalog.NewStoreRepository(store))
	orderService := order.NewService(order.NewStoreRepository(store), events.NopPublisher{}, logger)
	return newRouter(store, catalogService, orderService)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterWelcome(t *testing.T) {
	router := testRouter(t, docstore.NewMemoryStore())

	rec := get(router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the IndieStore API")
}

func TestRouterHealth(t *testing.T) {
	router := testRouter(t, docstore.NewMemoryStore())

	rec := get(router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "connected")
}

// downStore fails its health ping; everything else is unused.
type downStore struct{ docstore.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestRouterHealthDegraded(t *testing.T) {
	router := testRouter(t, downStore{})

	rec := get(router, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestRouterMetricsExposed(t *testing.T) {
	router := testRouter(t, docstore.NewMemoryStore())

	rec := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterServesModules(t *testing.T) {
	router := testRouter(t, docstore.NewMemoryStore())

	body := `{"name":"Minimalist Ceramic Vase","price":39}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = get(router, "/products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minimalist Ceramic Vase")

	rec = get(router, "/orders")
	assert.Equal(t, http.StatusOK, rec.Code)
}
