package httpx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hopandbarley/storefront/internal/users"
)

const SessionCookie = "session_id"

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxUserID
)

// SessionID returns the request's session id. The session middleware
// guarantees one exists.
func SessionID(r *http.Request) string {
	v, _ := r.Context().Value(ctxSessionID).(string)
	return v
}

// UserID returns the logged-in user's id, or "" for anonymous sessions.
func UserID(r *http.Request) string {
	v, _ := r.Context().Value(ctxUserID).(string)
	return v
}

// SessionMiddleware issues a session cookie on first touch and resolves the
// session's user, if any. Anonymous sessions exist solely to carry a cart.
type SessionMiddleware struct {
	Sessions *users.Sessions
	TTL      time.Duration
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			sessionID = c.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(m.TTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)

		userID, err := m.Sessions.UserID(ctx, sessionID)
		if err != nil {
			// treat a session-store hiccup as anonymous rather than failing the request
			log.Printf("resolve session %s: %v", sessionID, err)
		}
		if userID != "" {
			ctx = context.WithValue(ctx, ctxUserID, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser guards endpoints that need an authenticated caller.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "authentication_required",
				"message": "authentication required",
			})
			return
		}
		next(w, r)
	}
}
