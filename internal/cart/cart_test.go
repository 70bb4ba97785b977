package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hopandbarley/storefront/internal/catalog"
)

type memStore struct {
	carts map[string]Lines
}

func newMemStore() *memStore { return &memStore{carts: map[string]Lines{}} }

func (s *memStore) Get(_ context.Context, sessionID string) (Lines, error) {
	lines := Lines{}
	for k, v := range s.carts[sessionID] {
		lines[k] = v
	}
	return lines, nil
}

func (s *memStore) Save(_ context.Context, sessionID string, lines Lines) error {
	s.carts[sessionID] = lines
	return nil
}

func (s *memStore) Clear(_ context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (c *fakeCatalog) GetByID(_ context.Context, id string) (catalog.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (c *fakeCatalog) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testProduct(id, name, unitPrice string, stock int) catalog.Product {
	return catalog.Product{ID: id, Name: name, Slug: name, Price: price(unitPrice), Stock: stock, IsActive: true}
}

func newEngine(products ...catalog.Product) (*Engine, *memStore) {
	cat := &fakeCatalog{products: map[string]catalog.Product{}}
	for _, p := range products {
		cat.products[p.ID] = p
	}
	store := newMemStore()
	return &Engine{Store: store, Catalog: cat}, store
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	ale := testProduct("p1", "Pale Ale", "19.99", 5)

	t.Run("quantity over stock is rejected and cart unchanged", func(t *testing.T) {
		e, store := newEngine(ale)
		res, err := e.Add(ctx, "s1", ale, 6, false)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if res.OK() {
			t.Fatalf("expected rejection, got %+v", res)
		}
		if len(store.carts["s1"]) != 0 {
			t.Fatalf("cart was modified on rejection: %+v", store.carts["s1"])
		}
	})

	t.Run("non-positive quantity is rejected and cart unchanged", func(t *testing.T) {
		e, store := newEngine(ale)
		for _, q := range []int{0, -3} {
			res, err := e.Add(ctx, "s1", ale, q, false)
			if err != nil {
				t.Fatalf("Add(%d): %v", q, err)
			}
			if res.OK() {
				t.Fatalf("Add(%d) accepted: %+v", q, res)
			}
		}
		if len(store.carts["s1"]) != 0 {
			t.Fatalf("cart was modified on rejection: %+v", store.carts["s1"])
		}
		if n, _ := e.TotalQuantity(ctx, "s1"); n != 0 {
			t.Fatalf("TotalQuantity = %d, want 0", n)
		}
	})

	t.Run("accumulates quantity", func(t *testing.T) {
		e, _ := newEngine(ale)
		for i := 0; i < 2; i++ {
			if res, err := e.Add(ctx, "s1", ale, 2, false); err != nil || !res.OK() {
				t.Fatalf("Add #%d: res=%+v err=%v", i, res, err)
			}
		}
		n, err := e.TotalQuantity(ctx, "s1")
		if err != nil || n != 4 {
			t.Fatalf("TotalQuantity = %d, %v; want 4", n, err)
		}
	})

	t.Run("accumulated quantity cannot exceed stock", func(t *testing.T) {
		e, _ := newEngine(ale)
		if res, _ := e.Add(ctx, "s1", ale, 4, false); !res.OK() {
			t.Fatalf("first add rejected: %+v", res)
		}
		res, err := e.Add(ctx, "s1", ale, 2, false)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if res.OK() {
			t.Fatal("expected rejection past stock limit")
		}
		n, _ := e.TotalQuantity(ctx, "s1")
		if n != 4 {
			t.Fatalf("cart changed on rejection: quantity %d, want 4", n)
		}
	})

	t.Run("override replaces quantity", func(t *testing.T) {
		e, _ := newEngine(ale)
		_, _ = e.Add(ctx, "s1", ale, 4, false)
		if res, _ := e.Add(ctx, "s1", ale, 2, true); !res.OK() {
			t.Fatalf("override add rejected: %+v", res)
		}
		n, _ := e.TotalQuantity(ctx, "s1")
		if n != 2 {
			t.Fatalf("quantity = %d, want 2", n)
		}
	})

	t.Run("price is snapshotted on first add", func(t *testing.T) {
		e, store := newEngine(ale)
		_, _ = e.Add(ctx, "s1", ale, 1, false)

		repriced := ale
		repriced.Price = price("25.00")
		if res, _ := e.Add(ctx, "s1", repriced, 1, false); !res.OK() {
			t.Fatal("second add rejected")
		}

		line := store.carts["s1"][ale.ID]
		if !line.UnitPrice.Equal(price("19.99")) {
			t.Fatalf("snapshot price moved: %s", line.UnitPrice)
		}
		total, _ := e.TotalPrice(ctx, "s1")
		if !total.Equal(price("39.98")) {
			t.Fatalf("total = %s, want 39.98", total)
		}
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	ale := testProduct("p1", "Pale Ale", "19.99", 5)
	e, _ := newEngine(ale)

	_, _ = e.Add(ctx, "s1", ale, 2, false)
	if err := e.Remove(ctx, "s1", ale.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// removing again is a no-op, twice
	if err := e.Remove(ctx, "s1", ale.ID); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if err := e.Remove(ctx, "s1", ale.ID); err != nil {
		t.Fatalf("third Remove: %v", err)
	}
	n, _ := e.DistinctLineCount(ctx, "s1")
	if n != 0 {
		t.Fatalf("lines = %d, want 0", n)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	ale := testProduct("p1", "Pale Ale", "19.99", 5)

	t.Run("zero quantity removes", func(t *testing.T) {
		e, _ := newEngine(ale)
		_, _ = e.Add(ctx, "s1", ale, 2, false)
		res, err := e.Update(ctx, "s1", ale, 0)
		if err != nil || !res.OK() {
			t.Fatalf("Update: res=%+v err=%v", res, err)
		}
		if res.Message != "Item removed from cart." {
			t.Fatalf("message = %q", res.Message)
		}
		n, _ := e.DistinctLineCount(ctx, "s1")
		if n != 0 {
			t.Fatalf("lines = %d, want 0", n)
		}
	})

	t.Run("positive quantity overrides", func(t *testing.T) {
		e, _ := newEngine(ale)
		_, _ = e.Add(ctx, "s1", ale, 1, false)
		if res, _ := e.Update(ctx, "s1", ale, 3); !res.OK() {
			t.Fatalf("Update rejected: %+v", res)
		}
		n, _ := e.TotalQuantity(ctx, "s1")
		if n != 3 {
			t.Fatalf("quantity = %d, want 3", n)
		}
	})
}

func TestTotalPriceExactDecimals(t *testing.T) {
	ctx := context.Background()
	p1 := testProduct("p1", "Sticker", "0.10", 100)
	p2 := testProduct("p2", "Coaster", "0.10", 100)
	p3 := testProduct("p3", "Cap", "0.10", 100)
	e, _ := newEngine(p1, p2, p3)

	for _, p := range []catalog.Product{p1, p2, p3} {
		if res, _ := e.Add(ctx, "s1", p, 1, false); !res.OK() {
			t.Fatalf("add %s rejected", p.ID)
		}
	}

	total, err := e.TotalPrice(ctx, "s1")
	if err != nil {
		t.Fatalf("TotalPrice: %v", err)
	}
	if !total.Equal(price("0.30")) {
		t.Fatalf("total = %s, want exactly 0.30", total)
	}
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	ale := testProduct("p1", "Pale Ale", "19.99", 5)
	stout := testProduct("p2", "Stout", "9.99", 1)
	e, _ := newEngine(ale, stout)

	_, _ = e.Add(ctx, "s1", ale, 2, false)
	_, _ = e.Add(ctx, "s1", stout, 1, false)

	items, err := e.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	for _, it := range items {
		want := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if !it.TotalPrice.Equal(want) {
			t.Fatalf("line total %s, want %s", it.TotalPrice, want)
		}
		if it.Product.ID != it.ProductID {
			t.Fatalf("product %s joined onto line %s", it.Product.ID, it.ProductID)
		}
	}

	// re-iteration re-reads the store
	_, _ = e.Update(ctx, "s1", ale, 0)
	items, err = e.Items(ctx, "s1")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != stout.ID {
		t.Fatalf("items after removal = %+v", items)
	}
}

func TestItemCounts(t *testing.T) {
	ctx := context.Background()
	ale := testProduct("p1", "Pale Ale", "19.99", 5)
	stout := testProduct("p2", "Stout", "9.99", 4)
	e, _ := newEngine(ale, stout)

	_, _ = e.Add(ctx, "s1", ale, 3, false)
	_, _ = e.Add(ctx, "s1", stout, 2, false)

	if n, _ := e.TotalQuantity(ctx, "s1"); n != 5 {
		t.Fatalf("TotalQuantity = %d, want 5", n)
	}
	if n, _ := e.DistinctLineCount(ctx, "s1"); n != 2 {
		t.Fatalf("DistinctLineCount = %d, want 2", n)
	}
}
