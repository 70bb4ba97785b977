package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hopandbarley/storefront/internal/cart"
	"github.com/hopandbarley/storefront/internal/catalog"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeCart serves a fixed set of materialized items per session.
type fakeCart struct {
	mu      sync.Mutex
	items   map[string][]cart.Item
	cleared map[string]bool
}

func newFakeCart() *fakeCart {
	return &fakeCart{items: map[string][]cart.Item{}, cleared: map[string]bool{}}
}

func (c *fakeCart) put(sessionID, productID string, qty int, unitPrice string) {
	c.items[sessionID] = append(c.items[sessionID], cart.Item{
		Line: cart.Line{ProductID: productID, Quantity: qty, UnitPrice: price(unitPrice)},
		Product: catalog.Product{ID: productID},
		TotalPrice: price(unitPrice).Mul(decimal.NewFromInt(int64(qty))),
	})
}

func (c *fakeCart) Items(_ context.Context, sessionID string) ([]cart.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[sessionID], nil
}

func (c *fakeCart) TotalPrice(_ context.Context, sessionID string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items[sessionID] {
		total = total.Add(it.TotalPrice)
	}
	return total, nil
}

func (c *fakeCart) Clear(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sessionID)
	c.cleared[sessionID] = true
	return nil
}

// fakePlacer mimics the repo's transaction: stock checks and decrements are
// serialized under one lock, and a shortfall leaves every counter untouched.
type fakePlacer struct {
	mu     sync.Mutex
	stock  map[string]int
	placed []Order
}

func (p *fakePlacer) PlaceOrder(_ context.Context, userID string, form CheckoutForm, total decimal.Decimal, lines []Line) (Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, l := range lines {
		if p.stock[l.ProductID] < l.Quantity {
			return Order{}, &InsufficientStockError{
				ProductID: l.ProductID, Requested: l.Quantity, Available: p.stock[l.ProductID],
			}
		}
	}
	for _, l := range lines {
		p.stock[l.ProductID] -= l.Quantity
	}
	o := Order{
		ID:         "order-" + userID,
		UserID:     userID,
		Status:     StatusPending,
		TotalPrice: total,
		FullName:   form.FullName,
		Phone:      form.Phone,
		City:       form.City,
		Address:    form.Address,
	}
	p.placed = append(p.placed, o)
	return o, nil
}

type fakeNotifier struct {
	buyerOK, adminOK bool
	buyer, admin     int
}

func (n *fakeNotifier) NotifyBuyer(_ context.Context, _ Order) bool {
	n.buyer++
	return n.buyerOK
}

func (n *fakeNotifier) NotifyAdmin(_ context.Context, _ Order) bool {
	n.admin++
	return n.adminOK
}

func validForm() CheckoutForm {
	return CheckoutForm{FullName: "Jo Brewer", Phone: "+100200300", City: "Portland", Address: "12 Hop St"}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("places order, clears cart, totals snapshot prices", func(t *testing.T) {
		fc := newFakeCart()
		fc.put("s1", "p1", 2, "19.99")
		fc.put("s1", "p2", 1, "9.99")
		placer := &fakePlacer{stock: map[string]int{"p1": 5, "p2": 1}}
		notifier := &fakeNotifier{buyerOK: true, adminOK: true}
		svc := &Service{Cart: fc, Placer: placer, Notifier: notifier}

		order, err := svc.Checkout(ctx, "u1", "s1", validForm())
		if err != nil {
			t.Fatalf("Checkout: %v", err)
		}
		if !order.TotalPrice.Equal(price("49.97")) {
			t.Fatalf("total = %s, want 49.97", order.TotalPrice)
		}
		if order.Status != StatusPending {
			t.Fatalf("status = %s, want pending", order.Status)
		}
		if placer.stock["p1"] != 3 || placer.stock["p2"] != 0 {
			t.Fatalf("stock after placement = %v", placer.stock)
		}
		if !fc.cleared["s1"] {
			t.Fatal("cart not cleared after placement")
		}
		if notifier.buyer != 1 || notifier.admin != 1 {
			t.Fatalf("notifications: buyer=%d admin=%d", notifier.buyer, notifier.admin)
		}
	})

	t.Run("empty cart is rejected before placement", func(t *testing.T) {
		svc := &Service{Cart: newFakeCart(), Placer: &fakePlacer{stock: map[string]int{}}}
		_, err := svc.Checkout(ctx, "u1", "s1", validForm())
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("err = %v, want ErrEmptyCart", err)
		}
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		svc := &Service{Cart: newFakeCart(), Placer: &fakePlacer{stock: map[string]int{}}}
		_, err := svc.Checkout(ctx, "", "s1", validForm())
		if !errors.Is(err, ErrAuthenticationRequired) {
			t.Fatalf("err = %v, want ErrAuthenticationRequired", err)
		}
	})

	t.Run("malformed shipping fields fail before the transaction", func(t *testing.T) {
		fc := newFakeCart()
		fc.put("s1", "p1", 1, "5.00")
		placer := &fakePlacer{stock: map[string]int{"p1": 1}}
		svc := &Service{Cart: fc, Placer: placer}

		_, err := svc.Checkout(ctx, "u1", "s1", CheckoutForm{FullName: " ", Phone: "1", City: "", Address: "x"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if len(verr.Fields) != 2 {
			t.Fatalf("fields = %v, want full_name and city", verr.Fields)
		}
		if len(placer.placed) != 0 {
			t.Fatal("placement ran despite invalid form")
		}
	})

	t.Run("insufficient stock keeps the cart for retry", func(t *testing.T) {
		fc := newFakeCart()
		fc.put("s1", "p1", 3, "19.99")
		placer := &fakePlacer{stock: map[string]int{"p1": 2}}
		svc := &Service{Cart: fc, Placer: placer, Notifier: &fakeNotifier{}}

		_, err := svc.Checkout(ctx, "u1", "s1", validForm())
		var ise *InsufficientStockError
		if !errors.As(err, &ise) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if ise.Available != 2 || ise.Requested != 3 {
			t.Fatalf("details = %+v", ise)
		}
		if fc.cleared["s1"] {
			t.Fatal("cart cleared on failed placement")
		}
		if placer.stock["p1"] != 2 {
			t.Fatalf("stock mutated on failure: %d", placer.stock["p1"])
		}
	})

	t.Run("notification failure does not fail the order", func(t *testing.T) {
		fc := newFakeCart()
		fc.put("s1", "p1", 1, "19.99")
		placer := &fakePlacer{stock: map[string]int{"p1": 1}}
		notifier := &fakeNotifier{buyerOK: false, adminOK: false}
		svc := &Service{Cart: fc, Placer: placer, Notifier: notifier}

		order, err := svc.Checkout(ctx, "u1", "s1", validForm())
		if err != nil {
			t.Fatalf("Checkout: %v", err)
		}
		if order.ID == "" {
			t.Fatal("no order returned")
		}
		if notifier.buyer != 1 || notifier.admin != 1 {
			t.Fatalf("notifications not attempted: buyer=%d admin=%d", notifier.buyer, notifier.admin)
		}
	})
}

func TestCheckoutConcurrentRace(t *testing.T) {
	ctx := context.Background()

	// two buyers, one unit of stock: exactly one placement may win
	placer := &fakePlacer{stock: map[string]int{"p1": 1}}

	g, ctx := errgroup.WithContext(ctx)
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			fc := newFakeCart()
			sid := "s" + string(rune('1'+i))
			fc.put(sid, "p1", 1, "9.99")
			svc := &Service{Cart: fc, Placer: placer}
			_, err := svc.Checkout(ctx, "u"+string(rune('1'+i)), sid, validForm())
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup: %v", err)
	}

	var wins, rejections int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var ise *InsufficientStockError
			if !errors.As(err, &ise) {
				t.Fatalf("unexpected error: %v", err)
			}
			rejections++
		}
	}
	if wins != 1 || rejections != 1 {
		t.Fatalf("wins=%d rejections=%d, want exactly one of each", wins, rejections)
	}
	if placer.stock["p1"] != 0 {
		t.Fatalf("stock = %d, want 0", placer.stock["p1"])
	}
	if len(placer.placed) != 1 {
		t.Fatalf("orders placed = %d, want 1", len(placer.placed))
	}
}
