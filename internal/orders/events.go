package orders

import "time"

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is published after an order commits. Consumers (the
// email notifier) get everything they need without a store round-trip.
type OrderPlacedEvent struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	VendorID    string      `json:"vendor_id"`
	Items       []OrderItem `json:"items"`
	TotalPrice  int         `json:"total_price"`
	Marketplace string      `json:"marketplace"`
	PlacedAt    time.Time   `json:"placed_at"`
}
