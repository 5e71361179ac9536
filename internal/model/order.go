package model

import "time"

// OrderStatus enumerates the lifecycle states of an order. Transitions
// move forward along a fixed path; CANCELED is reachable only from the
// early states. Using a dedicated type (instead of loose strings) keeps
// illegal transitions out of the admin update path entirely.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCanceled   OrderStatus = "CANCELED"
)

// transitions lists the legal forward edges for each status. Terminal
// states have no outgoing edges.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped, StatusCanceled},
	StatusShipped:    {StatusDelivered, StatusCompleted},
	StatusDelivered:  {StatusCompleted},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next follows a legal
// edge of the status graph.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Address is a snapshot of a shipping or billing address copied onto
// the order at creation time. It is owned by the order and never
// references a live customer address record.
type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// OrderItem is a line item within an order. Name and unit price are
// snapshots taken at checkout so later catalog edits do not rewrite
// past orders.
type OrderItem struct {
	ID             uint64 // order_items.id
	OrderID        uint64 // order_items.order_id
	ProductID      uint64 // order_items.product_id
	ProductName    string // order_items.product_name
	UnitPriceCents uint32 // order_items.unit_price_cents
	Quantity       uint32 // order_items.quantity
}

// Order aggregates a customer purchase: line items, address snapshots,
// monetary totals and the status lifecycle. UserID is nil for guest
// checkouts. NotifiedAt records whether the confirmation notice has
// been dispatched; it is set exactly once via a conditional update.
//
// Totals are immutable after creation. Status moves only along the
// edges defined above; history rows are append-only and are deleted
// together with the order.
type Order struct {
	ID            uint64      // orders.id
	OrderNumber   string      // orders.order_number (unique, customer facing)
	UserID        *uint64     // orders.user_id (nullable, guest checkout)
	Email         string      // orders.email (contact address for notices)
	Status        OrderStatus // orders.status
	SubtotalCents uint32      // orders.subtotal_cents
	DiscountCents uint32      // orders.discount_cents
	TotalCents    uint32      // orders.total_cents
	CouponCode    *string     // orders.coupon_code (nullable)
	Shipping      Address     // orders.ship_* columns
	Billing       Address     // orders.bill_* columns
	NotifiedAt    *time.Time  // orders.notified_at (nullable)
	CreatedAt     time.Time   // orders.created_at
	UpdatedAt     time.Time   // orders.updated_at
	Items         []OrderItem // order_items rows
}

// StatusHistoryEntry is one row of the append-only order status log.
type StatusHistoryEntry struct {
	ID        uint64      // order_status_history.id
	OrderID   uint64      // order_status_history.order_id
	Status    OrderStatus // order_status_history.status
	Comment   string      // order_status_history.comment
	CreatedAt time.Time   // order_status_history.created_at
}
