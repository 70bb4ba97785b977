package notify

import (
	"encoding/json"
	"time"
)

const (
	TopicBuyer = "order.notify.buyer"
	TopicAdmin = "order.notify.admin"

	EventOrderConfirmation = "OrderConfirmation"
	EventOrderAdminAlert   = "OrderAdminAlert"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// OrderNotification carries everything the notifier worker needs to render
// an email without re-reading the order. The buyer's address is resolved by
// the worker from user_id.
type OrderNotification struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	City       string    `json:"city"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}

// PartitionKey keeps all notifications for one order on one partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
