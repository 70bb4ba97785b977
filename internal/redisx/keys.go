package redisx

import "time"

const (
	// Logged-in session binding: sess:{session_id} -> user_id
	KeySession = "sess:%s"

	// Shopping cart contents: cart:{session_id} -> JSON lines
	KeyCart = "cart:%s"

	// Dedup for notification event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession = 14 * 24 * time.Hour
	TTLCart    = 14 * 24 * time.Hour
	TTLDedup   = 48 * time.Hour
)
