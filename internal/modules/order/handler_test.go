package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	svc, _ := newTestService(t)
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/orders", orderRequest(
		OrderItem{ProductID: "prod-100", Quantity: 2, Price: 10.00},
		OrderItem{ProductID: "prod-200", Quantity: 1, Price: 5.50},
	))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 25.50, created.Total)
	assert.Equal(t, DefaultStatus, created.Status)

	rec = doJSON(t, router, http.MethodGet, "/orders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/orders/"+created.ID, map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, 25.50, updated.Total)
	assert.Equal(t, created.Items, updated.Items)

	rec = doJSON(t, router, http.MethodDelete, "/orders/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/orders/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	malformed := httptest.NewRecorder()
	router.ServeHTTP(malformed, req)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)

	// Validation failures name the offending json field.
	bad := orderRequest()
	bad.CustomerEmail = "not-an-email"
	rec = doJSON(t, router, http.MethodPost, "/orders", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer_email")

	rec = doJSON(t, router, http.MethodGet, "/orders?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// No orders serialises as an empty array, never null.
	rec := doJSON(t, router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/orders", orderRequest())
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/orders?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []*Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
