package enums

import "fmt"

// OrderStatus maps to the order_status enum in Postgres.
type OrderStatus string

const (
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaymentReview   OrderStatus = "payment_review"
	OrderStatusInKitchen       OrderStatus = "in_kitchen"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusAwaitingPayment,
	OrderStatusPaymentReview,
	OrderStatusInKitchen,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// nextOrderStatus is the forward step of the order lifecycle. Cancellation
// is handled separately: allowed from any non-terminal status.
var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusProcessing:      OrderStatusAwaitingPayment,
	OrderStatusAwaitingPayment: OrderStatusPaymentReview,
	OrderStatusPaymentReview:   OrderStatusInKitchen,
	OrderStatusInKitchen:       OrderStatusOutForDelivery,
	OrderStatusOutForDelivery:  OrderStatusDelivered,
}

// IsValid reports whether the value matches the canonical order_status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// target: one forward step at a time, or cancellation before delivery.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return nextOrderStatus[s] == target
}

// ParseOrderStatus converts raw input into OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
