package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hopandbarley/storefront/internal/cart"
	"github.com/hopandbarley/storefront/internal/catalog"
)

type CartHandler struct {
	Engine  *cart.Engine
	Catalog *catalog.Repo
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.view)
	r.Post("/cart/add/{productID}", h.add)
	r.Post("/cart/update/{productID}", h.update)
	r.Post("/cart/remove/{productID}", h.remove)
	r.Post("/cart/clear", h.clear)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func readQuantity(r *http.Request) int {
	var req quantityReq
	req.Quantity = 1
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req.Quantity
}

// cartState is appended to every mutation response so the client can update
// its badge and total without a second round trip.
func (h *CartHandler) cartState(ctx context.Context, sessionID string) (count int, total string, err error) {
	count, err = h.Engine.TotalQuantity(ctx, sessionID)
	if err != nil {
		return 0, "", err
	}
	t, err := h.Engine.TotalPrice(ctx, sessionID)
	if err != nil {
		return 0, "", err
	}
	return count, t.StringFixed(2), nil
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, res cart.Result) {
	count, total, err := h.cartState(r.Context(), SessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	code := http.StatusOK
	if !res.OK() {
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]any{
		"status":           res.Status,
		"message":          res.Message,
		"cart_items_count": count,
		"cart_total":       total,
	})
}

// activeProduct resolves the path product and rejects inactive ones, the way
// the storefront treats delisted items as gone.
func (h *CartHandler) activeProduct(r *http.Request) (catalog.Product, error) {
	p, err := h.Catalog.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		return catalog.Product{}, err
	}
	if !p.IsActive {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := SessionID(r)
	items, err := h.Engine.Items(ctx, sid)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.Engine.TotalPrice(ctx, sid)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := h.Engine.TotalQuantity(ctx, sid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_price": total.StringFixed(2),
		"items_count": count,
	})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	r = r.WithContext(ctx)

	p, err := h.activeProduct(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Engine.Add(ctx, SessionID(r), p, readQuantity(r), false)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, res)
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	r = r.WithContext(ctx)

	p, err := h.activeProduct(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Engine.Update(ctx, SessionID(r), p, readQuantity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, res)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	r = r.WithContext(ctx)

	// removal does not care whether the product is still active or present
	productID := chi.URLParam(r, "productID")
	if err := h.Engine.Remove(ctx, SessionID(r), productID); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, cart.Result{Status: cart.StatusSuccess, Message: "Item removed from cart."})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	r = r.WithContext(ctx)

	if err := h.Engine.Clear(ctx, SessionID(r)); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, cart.Result{Status: cart.StatusSuccess, Message: "Cart cleared."})
}
