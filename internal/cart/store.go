package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hopandbarley/storefront/internal/redisx"
)

// Line is one product's entry in a cart. UnitPrice is the catalog price
// captured when the product was first added; later price changes do not
// touch it.
type Line struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Lines maps product id -> line. One line per product.
type Lines map[string]Line

// Store persists the cart for a session. The session id is the only key;
// nothing here is shared across sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (Lines, error)
	Save(ctx context.Context, sessionID string, lines Lines) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps carts as JSON blobs under cart:{session_id}.
type RedisStore struct {
	RDB *redis.Client
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf(redisx.KeyCart, sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Lines, error) {
	b, err := s.RDB.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Lines{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines Lines
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, lines Lines) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, s.key(sessionID), b, redisx.TTLCart).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.RDB.Del(ctx, s.key(sessionID)).Err()
}
