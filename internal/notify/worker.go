package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/hopandbarley/storefront/internal/kafka"
	"github.com/hopandbarley/storefront/internal/redisx"
	"github.com/hopandbarley/storefront/internal/users"
)

// Directory resolves a buyer's email address from the user id carried in the
// event payload.
type Directory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Sender interface {
	Send(to, subject, body string) error
}

// Worker consumes order notification events and delivers the rendered emails.
// Delivery failures are logged and the offset is still committed: a mail that
// cannot be sent is dropped, not retried forever.
type Worker struct {
	Users      Directory
	Redis      *redis.Client
	Mailer     Sender
	AdminEmail string
	Service    string // dedup namespace
}

func (w *Worker) HandleBuyer(ctx context.Context, m kafkago.Message) error {
	p, ok, err := w.decode(ctx, m, EventOrderConfirmation)
	if err != nil || !ok {
		return err
	}

	u, err := w.Users.GetByID(ctx, p.UserID)
	if errors.Is(err, users.ErrNotFound) {
		log.Printf("notify: buyer %s not found for order %s, dropping", p.UserID, p.OrderID)
		return nil
	}
	if err != nil {
		return err
	}

	subject, body, err := RenderBuyerEmail(p)
	if err != nil {
		return err
	}
	if err := w.Mailer.Send(u.Email, subject, body); err != nil {
		log.Printf("notify: send buyer email order=%s to=%s: %v", p.OrderID, u.Email, err)
	}
	return nil
}

func (w *Worker) HandleAdmin(ctx context.Context, m kafkago.Message) error {
	p, ok, err := w.decode(ctx, m, EventOrderAdminAlert)
	if err != nil || !ok {
		return err
	}

	subject, body, err := RenderAdminEmail(p)
	if err != nil {
		return err
	}
	if err := w.Mailer.Send(w.AdminEmail, subject, body); err != nil {
		log.Printf("notify: send admin email order=%s: %v", p.OrderID, err)
	}
	return nil
}

// decode unwraps the envelope, filters on event type and applies redis dedup.
// ok is false when the message should be skipped.
func (w *Worker) decode(ctx context.Context, m kafkago.Message, eventType string) (OrderNotification, bool, error) {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return OrderNotification{}, false, err
	}
	if env.EventType != eventType {
		return OrderNotification{}, false, nil
	}

	if w.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, w.Service, env.EventID)
		exists, _ := redisx.Exists(ctx, w.Redis, dkey)
		if exists {
			return OrderNotification{}, false, nil
		}
		_ = w.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[OrderNotification](env.Payload)
	if err != nil {
		return OrderNotification{}, false, err
	}
	return p, true, nil
}
