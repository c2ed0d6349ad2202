package catalog

import (
	"errors"
	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidName       = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidStock      = errors.New("stock must not be negative")
	ErrMissingVendor     = errors.New("product has no vendor")
	ErrNotOwner          = errors.New("not authorized to modify this product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a vendor listing. Prices are integer cents. Stock never goes
// below zero after a committed operation.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int         `json:"price"`
	Stock       int         `json:"stock"`
	Category    string      `json:"category"`
	Image       string      `json:"image,omitempty"`
	VendorID    string      `json:"vendor_id"`
	Confirmed   bool        `json:"confirmed"`
	ConfirmedBy string      `json:"confirmed_by,omitempty"`
	Marketplace Marketplace `json:"marketplace"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
