package orders

import (
	"errors"
	"time"

	"github.com/example/vendor-market/internal/catalog"
)

var ErrOrderNotFound = errors.New("order not found")

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
)

// CartItem is one line of a submitted cart.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// OrderItem is a cart line enriched with the product name and unit price in
// effect at checkout. Snapshots, never re-synced with the catalog.
type OrderItem struct {
	ProductID string `json:"product"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// ProductDetail records a product's stock before and after its order line
// was reconciled. Embedded in the order at creation; read paths display it
// as-is and never recompute it from live stock.
type ProductDetail struct {
	ProductName        string `json:"product_name"`
	InitialStock       int    `json:"initial_stock"`
	QuantityCheckedOut int    `json:"quantity_checked_out"`
	RemainingStock     int    `json:"remaining_stock"`
}

// Order is created exactly once at checkout and immutable afterwards. The
// vendor of record is the owner of the first cart item's product.
type Order struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user"`
	VendorID       string              `json:"vendor"`
	Items          []OrderItem         `json:"order_items"`
	TotalPrice     int                 `json:"total_price"`
	ProductDetails []ProductDetail     `json:"product_details"`
	Marketplace    catalog.Marketplace `json:"marketplace"`
	Status         Status              `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderView is an order decorated with display names for the read paths.
type OrderView struct {
	Order
	UserName   string `json:"user_name,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
}
