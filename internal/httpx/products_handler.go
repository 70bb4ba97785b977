package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hopandbarley/storefront/internal/catalog"
	"github.com/hopandbarley/storefront/internal/reviews"
)

type ProductsHandler struct {
	Catalog *catalog.Repo
	Reviews *reviews.Service
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{slug}", h.detail)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Catalog.List(ctx, r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductsHandler) detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !p.IsActive {
		writeError(w, catalog.ErrNotFound)
		return
	}

	rating, err := h.Reviews.AverageRating(ctx, p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":        p,
		"average_rating": rating,
	})
}
