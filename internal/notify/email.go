package notify

import (
	"fmt"
	"strings"
	"text/template"
)

var buyerTmpl = template.Must(template.New("buyer").Parse(
	`Hi {{.FullName}},

Thank you for your order!

Order #{{.OrderID}}
Total: {{.TotalPrice}}
Shipping to: {{.City}}, {{.Address}}

We will let you know as soon as it ships.

Hop & Barley
`))

var adminTmpl = template.Must(template.New("admin").Parse(
	`New order #{{.OrderID}}

Customer: {{.FullName}} ({{.Phone}})
Total: {{.TotalPrice}}
Status: {{.Status}}
Ship to: {{.City}}, {{.Address}}
Placed at: {{.CreatedAt}}
`))

func RenderBuyerEmail(n OrderNotification) (subject, body string, err error) {
	subject = fmt.Sprintf("Order Confirmation - #%s", n.OrderID)
	var b strings.Builder
	if err := buyerTmpl.Execute(&b, n); err != nil {
		return "", "", err
	}
	return subject, b.String(), nil
}

func RenderAdminEmail(n OrderNotification) (subject, body string, err error) {
	subject = fmt.Sprintf("New Order #%s - Hop & Barley", n.OrderID)
	var b strings.Builder
	if err := adminTmpl.Execute(&b, n); err != nil {
		return "", "", err
	}
	return subject, b.String(), nil
}
