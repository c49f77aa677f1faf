package domain

// OrderStatus is the lifecycle state of one order item.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
)

var orderStatusDisplay = map[OrderStatus]string{
	StatusPending:   "Pending",
	StatusAccepted:  "Accepted",
	StatusPreparing: "Preparing",
	StatusReady:     "Ready",
	StatusCompleted: "Completed",
}

// ParseOrderStatus validates a client-supplied status code. Only the
// exact enum codes are accepted.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := orderStatusDisplay[status]
	return status, ok
}

// Display returns the human-readable label broadcast to customers.
func (s OrderStatus) Display() string {
	if label, ok := orderStatusDisplay[s]; ok {
		return label
	}
	return string(s)
}

// PaymentStatus is the settlement state of a bill.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)
