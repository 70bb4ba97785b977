package cart

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hopandbarley/storefront/internal/catalog"
)

// Catalog is the read-only product lookup the engine needs.
type Catalog interface {
	GetByID(ctx context.Context, id string) (catalog.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}

// Engine applies the cart business rules against a Store. Quantities coming
// from clients are untrusted, so every mutation validates against current
// stock before anything is persisted.
type Engine struct {
	Store   Store
	Catalog Catalog
}

// Item is a cart line joined with its resolved product, plus the line total.
type Item struct {
	Line
	Product    catalog.Product `json:"product"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Add puts quantity units of p into the session's cart. With override the
// quantity replaces the existing line quantity instead of adding to it.
// A rejected add leaves the stored cart exactly as it was.
func (e *Engine) Add(ctx context.Context, sessionID string, p catalog.Product, quantity int, override bool) (Result, error) {
	if quantity <= 0 {
		return rejected("Quantity must be at least 1."), nil
	}
	if quantity > p.Stock {
		return rejected("Available stock %d. Cannot add %d items.", p.Stock, quantity), nil
	}

	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	line, ok := lines[p.ID]
	if !ok {
		// price snapshot is taken once, on first add
		line = Line{ProductID: p.ID, Quantity: 0, UnitPrice: p.Price}
	}

	newQuantity := quantity
	if !override {
		newQuantity = line.Quantity + quantity
	}
	if newQuantity > p.Stock {
		return rejected("Cannot add more. Maximum available: %d.", p.Stock), nil
	}

	line.Quantity = newQuantity
	lines[p.ID] = line
	if err := e.Store.Save(ctx, sessionID, lines); err != nil {
		return Result{}, err
	}
	return success("%s added to cart.", p.Name), nil
}

// Remove drops the product's line. Removing an absent product is a no-op.
func (e *Engine) Remove(ctx context.Context, sessionID string, productID string) error {
	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, ok := lines[productID]; !ok {
		return nil
	}
	delete(lines, productID)
	return e.Store.Save(ctx, sessionID, lines)
}

// Update sets the line to exactly quantity. Zero or negative removes the line.
func (e *Engine) Update(ctx context.Context, sessionID string, p catalog.Product, quantity int) (Result, error) {
	if quantity <= 0 {
		if err := e.Remove(ctx, sessionID, p.ID); err != nil {
			return Result{}, err
		}
		return success("Item removed from cart."), nil
	}
	return e.Add(ctx, sessionID, p, quantity, true)
}

func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	return e.Store.Clear(ctx, sessionID)
}

// Items materializes the cart: one batched catalog lookup for all lines,
// each line joined with its product and line total. Lines whose product no
// longer exists in the catalog are skipped. Every call re-reads the store
// and re-issues the lookup.
func (e *Engine) Items(ctx context.Context, sessionID string) ([]Item, error) {
	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products, err := e.Catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(lines))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		line := lines[id]
		items = append(items, Item{
			Line:       line,
			Product:    p,
			TotalPrice: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items, nil
}

// TotalPrice sums unit_price x quantity over the stored snapshot prices.
// No catalog lookup: a later price change must not move an existing cart.
func (e *Engine) TotalPrice(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// TotalQuantity is the sum of quantities across lines: the number shown on
// the cart badge.
func (e *Engine) TotalQuantity(ctx context.Context, sessionID string) (int, error) {
	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n, nil
}

// DistinctLineCount is the number of distinct products in the cart.
func (e *Engine) DistinctLineCount(ctx context.Context, sessionID string) (int, error) {
	lines, err := e.Store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}
