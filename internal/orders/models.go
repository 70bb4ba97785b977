package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	FullName   string          `json:"full_name"`
	Phone      string          `json:"phone"`
	City       string          `json:"city"`
	Address    string          `json:"address"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsPaid reports whether the purchase went through: paid or any later state.
func (o Order) IsPaid() bool { return o.Status.Paid() }

type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // unit price at purchase time
}

// Line is what the placement transaction consumes: a materialized cart line.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
