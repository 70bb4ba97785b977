package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hopandbarley/storefront/internal/redisx"
)

// Sessions binds session cookies to user ids in redis. Anonymous sessions
// have no entry here; they exist only as a cookie carrying a cart.
type Sessions struct {
	RDB *redis.Client
	TTL time.Duration
}

func (s *Sessions) key(sessionID string) string {
	return fmt.Sprintf(redisx.KeySession, sessionID)
}

func (s *Sessions) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return redisx.TTLSession
}

// Attach binds the existing session to a user on login. Keeping the same
// session id means the anonymous cart carries over.
func (s *Sessions) Attach(ctx context.Context, sessionID, userID string) error {
	return s.RDB.Set(ctx, s.key(sessionID), userID, s.ttl()).Err()
}

// UserID resolves the session's user, or "" for anonymous sessions.
func (s *Sessions) UserID(ctx context.Context, sessionID string) (string, error) {
	v, err := s.RDB.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// End drops the user binding; the session id (and its cart) stays valid.
func (s *Sessions) End(ctx context.Context, sessionID string) error {
	return s.RDB.Del(ctx, s.key(sessionID)).Err()
}
