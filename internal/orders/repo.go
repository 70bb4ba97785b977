package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

// PlaceOrder converts materialized cart lines into an order plus items and
// debits stock, all inside one transaction. Stock is re-read FOR UPDATE per
// product so two concurrent checkouts serialize on the product row; any
// shortfall rolls the whole thing back and returns InsufficientStockError.
func (r *Repo) PlaceOrder(ctx context.Context, userID string, form CheckoutForm, total decimal.Decimal, lines []Line) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order := Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		Status:     StatusPending,
		TotalPrice: total,
		FullName:   form.FullName,
		Phone:      form.Phone,
		City:       form.City,
		Address:    form.Address,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, total_price, full_name, phone, city, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, order.TotalPrice,
		order.FullName, order.Phone, order.City, order.Address,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, line := range lines {
		var stock int
		err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, line.ProductID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, &InsufficientStockError{ProductID: line.ProductID, Requested: line.Quantity, Available: 0}
		}
		if err != nil {
			return Order{}, err
		}
		if stock < line.Quantity {
			return Order{}, &InsufficientStockError{
				ProductID: line.ProductID, Requested: line.Quantity, Available: stock,
			}
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)`,
			uuid.NewString(), order.ID, line.ProductID, line.Quantity, line.UnitPrice,
		); err != nil {
			return Order{}, err
		}

		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id=$1`,
			line.ProductID, line.Quantity); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (r *Repo) Get(ctx context.Context, orderID, userID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, status, total_price, full_name, phone, city, address, created_at, updated_at
		FROM orders WHERE id=$1 AND user_id=$2`, orderID, userID,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.FullName, &o.Phone,
		&o.City, &o.Address, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, status, total_price, full_name, phone, city, address, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.FullName,
			&o.Phone, &o.City, &o.Address, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatus drives the administrative state machine. The current status is
// locked and checked against the transition table; anything else fails with
// ErrInvalidTransition.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
