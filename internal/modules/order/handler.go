package order

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/indiestorelabs/indiestore-backend/internal/httpx"
)

// Handler exposes the order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)        // POST   /orders
		r.Get("/", h.listOrders)         // GET    /orders?limit=
		r.Get("/{id}", h.getOrder)       // GET    /orders/{id}
		r.Put("/{id}", h.updateOrder)    // PUT    /orders/{id}
		r.Delete("/{id}", h.deleteOrder) // DELETE /orders/{id}
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		httpx.WriteServiceError(w, "order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	orders, err := h.service.ListOrders(r.Context(), limit)
	if err != nil {
		httpx.WriteServiceError(w, "order", err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, "order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.service.UpdateOrder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteServiceError(w, "order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteServiceError(w, "order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
