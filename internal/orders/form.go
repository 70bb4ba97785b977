package orders

import "strings"

// CheckoutForm carries the shipping fields the buyer submits at checkout.
type CheckoutForm struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Address  string `json:"address"`
}

func (f *CheckoutForm) Validate() error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)

	var missing []string
	if f.FullName == "" {
		missing = append(missing, "full_name")
	}
	if f.Phone == "" {
		missing = append(missing, "phone")
	}
	if f.City == "" {
		missing = append(missing, "city")
	}
	if f.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
