package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/hopandbarley/storefront/internal/kafka"
	"github.com/hopandbarley/storefront/internal/orders"
)

// KafkaNotifier implements the post-commit notification hook by publishing
// events for the notifier worker. Publishing is fire-and-forget into the
// producer inbox, so it can never block or fail a committed order.
type KafkaNotifier struct {
	Buyer   *kafkax.Producer // TopicBuyer
	Admin   *kafkax.Producer // TopicAdmin
	Service string
}

func (n *KafkaNotifier) NotifyBuyer(ctx context.Context, o orders.Order) bool {
	return n.publish(n.Buyer, EventOrderConfirmation, o)
}

func (n *KafkaNotifier) NotifyAdmin(ctx context.Context, o orders.Order) bool {
	return n.publish(n.Admin, EventOrderAdminAlert, o)
}

func (n *KafkaNotifier) publish(p *kafkax.Producer, eventType string, o orders.Order) bool {
	if p == nil {
		return false
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderNotification{
			OrderID:    o.ID,
			UserID:     o.UserID,
			Status:     string(o.Status),
			TotalPrice: o.TotalPrice.StringFixed(2),
			FullName:   o.FullName,
			Phone:      o.Phone,
			City:       o.City,
			Address:    o.Address,
			CreatedAt:  o.CreatedAt,
		}),
	}
	p.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return true
}
