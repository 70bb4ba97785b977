package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Exists(ctx context.Context, productID, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM reviews WHERE product_id=$1 AND user_id=$2)`,
		productID, userID).Scan(&exists)
	return exists, err
}

// HasQualifyingPurchase: at least one paid/shipped/delivered order of this
// user containing the product.
func (r *Repo) HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id=$1 AND oi.product_id=$2
			  AND o.status IN ('paid','shipped','delivered'))`,
		userID, productID).Scan(&exists)
	return exists, err
}

func (r *Repo) Insert(ctx context.Context, rev Review) (Review, error) {
	rev.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO reviews(id, product_id, user_id, rating, text)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Text,
	).Scan(&rev.CreatedAt)
	if err != nil {
		// unique (product_id, user_id) backstops a concurrent double submit
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Review{}, ErrDuplicateReview
		}
		return Review{}, err
	}
	return rev, nil
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, text, created_at
		FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Text, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *Repo) AverageRating(ctx context.Context, productID string) (float64, error) {
	var avg float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)
		FROM reviews WHERE product_id=$1`, productID).Scan(&avg)
	return avg, err
}
