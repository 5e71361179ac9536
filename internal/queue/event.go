// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published when an order reaches CONFIRMED and
// its confirmation notice is owed. It carries enough information for
// the notification consumer to compose the notice without querying the
// primary database.
type OrderConfirmedEvent struct {
	OrderNumber    string `json:"order_number"`
	RecipientEmail string `json:"recipient_email"`
	TotalCents     uint32 `json:"total_cents"`
	ItemCount      int    `json:"item_count"`
	ConfirmedAt    string `json:"confirmed_at"`
}
