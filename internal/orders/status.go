package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// pending -> paid -> shipped -> delivered; cancellation only out of pending.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusCancelled: true},
	StatusPaid:      {StatusShipped: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Paid reports whether the status indicates a completed purchase. Review
// eligibility and the is_paid flag both derive from this.
func (s Status) Paid() bool {
	return s == StatusPaid || s == StatusShipped || s == StatusDelivered
}
