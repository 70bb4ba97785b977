package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hopandbarley/storefront/internal/orders"
)

type OrdersHandler struct {
	Service *orders.Service
	Repo    *orders.Repo
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/checkout", RequireUser(h.checkout))
	r.Get("/orders", RequireUser(h.list))
	r.Get("/orders/{id}", RequireUser(h.get))
	r.Post("/orders/{id}/pay", RequireUser(h.pay))
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var form orders.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json", "message": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.Checkout(ctx, UserID(r), SessionID(r), form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// pay settles a pending order. Payment is a stub: ownership is checked, the
// status machine does the rest.
func (h *OrdersHandler) pay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Repo.Get(ctx, chi.URLParam(r, "id"), UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Repo.UpdateStatus(ctx, order.ID, orders.StatusPaid); err != nil {
		writeError(w, err)
		return
	}
	order, err = h.Repo.Get(ctx, order.ID, UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListByUser(ctx, UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Repo.Get(ctx, chi.URLParam(r, "id"), UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.Repo.Items(ctx, order.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":   order,
		"items":   items,
		"is_paid": order.IsPaid(),
	})
}
