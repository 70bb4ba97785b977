package orders

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/hopandbarley/storefront/internal/cart"
)

// CartSource is the slice of the cart engine checkout needs.
type CartSource interface {
	Items(ctx context.Context, sessionID string) ([]cart.Item, error)
	TotalPrice(ctx context.Context, sessionID string) (decimal.Decimal, error)
	Clear(ctx context.Context, sessionID string) error
}

// Placer runs the atomic placement transaction.
type Placer interface {
	PlaceOrder(ctx context.Context, userID string, form CheckoutForm, total decimal.Decimal, lines []Line) (Order, error)
}

// Notifier is invoked after commit, best effort. A false return means the
// notification was not delivered; it never fails the order.
type Notifier interface {
	NotifyBuyer(ctx context.Context, o Order) bool
	NotifyAdmin(ctx context.Context, o Order) bool
}

type Service struct {
	Cart     CartSource
	Placer   Placer
	Notifier Notifier
}

// Checkout turns the session's cart into a pending order. Shipping fields are
// validated first, the cart is materialized and defensively re-checked for
// emptiness, and the placement transaction does the rest. The cart survives a
// failed placement untouched so the buyer can retry.
func (s *Service) Checkout(ctx context.Context, userID, sessionID string, form CheckoutForm) (Order, error) {
	if userID == "" {
		return Order{}, ErrAuthenticationRequired
	}
	if err := form.Validate(); err != nil {
		return Order{}, err
	}

	items, err := s.Cart.Items(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	total, err := s.Cart.TotalPrice(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order, err := s.Placer.PlaceOrder(ctx, userID, form, total, lines)
	if err != nil {
		return Order{}, err
	}

	if err := s.Cart.Clear(ctx, sessionID); err != nil {
		// the order is committed; a stale cart is an inconvenience, not a failure
		log.Printf("clear cart after order %s: %v", order.ID, err)
	}

	if s.Notifier != nil {
		if !s.Notifier.NotifyBuyer(ctx, order) {
			log.Printf("buyer notification for order %s not delivered", order.ID)
		}
		if !s.Notifier.NotifyAdmin(ctx, order) {
			log.Printf("admin notification for order %s not delivered", order.ID)
		}
	}

	return order, nil
}
