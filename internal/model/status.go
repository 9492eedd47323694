package model

import "fmt"

// OrderStatus is the fulfilment state of an order.
//
// The intended lifecycle is pending → processing → shipped → delivered.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists the statuses in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

// rank returns the position of s in the lifecycle, or -1.
func (s OrderStatus) rank() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	return s.rank() >= 0
}

// ParseOrderStatus converts a string to an OrderStatus.
func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q: must be one of %v", v, OrderStatuses)
	}
	return s, nil
}

// CanTransition reports whether an order may move from s to next.
// Staying put and moving forward (including skips) are allowed; moving
// backward is not.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}
