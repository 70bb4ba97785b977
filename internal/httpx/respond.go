package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hopandbarley/storefront/internal/catalog"
	"github.com/hopandbarley/storefront/internal/orders"
	"github.com/hopandbarley/storefront/internal/reviews"
	"github.com/hopandbarley/storefront/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps a domain error to an HTTP status and a stable error code.
func errorStatus(err error) (int, string) {
	var stockErr *orders.InsufficientStockError
	var validationErr *orders.ValidationError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict, "insufficient_stock"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, orders.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart"
	case errors.Is(err, orders.ErrAuthenticationRequired):
		return http.StatusUnauthorized, "authentication_required"
	case errors.Is(err, orders.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, reviews.ErrDuplicateReview):
		return http.StatusConflict, "duplicate_review"
	case errors.Is(err, reviews.ErrPurchaseRequired):
		return http.StatusForbidden, "purchase_required"
	case errors.Is(err, reviews.ErrInvalidReview),
		errors.Is(err, users.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, users.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
