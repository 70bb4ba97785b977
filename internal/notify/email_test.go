package notify

import (
	"strings"
	"testing"
)

func TestRenderEmails(t *testing.T) {
	n := OrderNotification{
		OrderID:    "o-123",
		FullName:   "Jo Brewer",
		Phone:      "+100200300",
		City:       "Portland",
		Address:    "12 Hop St",
		Status:     "pending",
		TotalPrice: "49.97",
	}

	t.Run("buyer", func(t *testing.T) {
		subject, body, err := RenderBuyerEmail(n)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if subject != "Order Confirmation - #o-123" {
			t.Fatalf("subject = %q", subject)
		}
		for _, want := range []string{"Jo Brewer", "o-123", "49.97", "Portland"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("admin", func(t *testing.T) {
		subject, body, err := RenderAdminEmail(n)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if subject != "New Order #o-123 - Hop & Barley" {
			t.Fatalf("subject = %q", subject)
		}
		for _, want := range []string{"+100200300", "pending", "12 Hop St"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
	})
}
