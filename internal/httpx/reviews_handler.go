package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hopandbarley/storefront/internal/catalog"
	"github.com/hopandbarley/storefront/internal/reviews"
)

type ReviewsHandler struct {
	Catalog *catalog.Repo
	Service *reviews.Service
}

func (h *ReviewsHandler) Register(r *chi.Mux) {
	r.Get("/products/{slug}/reviews", h.list)
	r.Post("/products/{slug}/reviews", RequireUser(h.create))
}

type createReviewReq struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json", "message": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	rev, err := h.Service.Create(ctx, p.ID, UserID(r), req.Rating, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.ListByProduct(ctx, p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
