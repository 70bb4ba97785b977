package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotFound               = errors.New("order not found")
	ErrInvalidTransition      = errors.New("invalid status transition")
)

// InsufficientStockError aborts the whole placement transaction: no order,
// no items, no stock mutation survives it.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ValidationError reports malformed checkout fields, surfaced before the
// transaction starts.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid checkout fields: " + strings.Join(e.Fields, ", ")
}
