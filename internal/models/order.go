package models

import (
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// AllowedTransitions lists the statuses reachable from s in one step.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	return orderTransitions[s]
}

// CanTransitionTo reports whether s may move to next. Staying put is always
// allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CancellableFrom is the set of statuses an actor may cancel from.
func CancellableFrom(isAdmin bool) []OrderStatus {
	if isAdmin {
		return []OrderStatus{StatusPending, StatusProcessing}
	}
	return []OrderStatus{StatusPending}
}

// CanCancel reports whether an order in status s may be cancelled by the actor.
func (s OrderStatus) CanCancel(isAdmin bool) bool {
	for _, allowed := range CancellableFrom(isAdmin) {
		if allowed == s {
			return true
		}
	}
	return false
}

// Editable reports whether the shipping address may still change.
func (s OrderStatus) Editable() bool {
	return s == StatusPending || s == StatusProcessing
}

type OrderItem struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	CartRestored    bool        `json:"cart_restored,omitempty"`
}

func (o Order) RecordID() int { return o.ID }

// Units is the total quantity across all lines.
func (o Order) Units() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// CountsTowardRevenue is false for cancelled orders.
func (o Order) CountsTowardRevenue() bool {
	return o.Status != StatusCancelled
}
