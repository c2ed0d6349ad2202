package catalog

import "context"

// Store is the persistence contract for the catalog. Stock mutation goes
// through DecrementStock/AdjustStock so implementations can make the
// check-and-write atomic (conditional update, not read-then-write).
type Store interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// DecrementStock subtracts qty from the product's stock only if the
	// remaining stock would not go negative, returning the new stock.
	// Fails with ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, err error)

	// AdjustStock adds delta (which may be negative) to the product's
	// stock under the same non-negative guard, returning the new stock.
	AdjustStock(ctx context.Context, id string, delta int) (remaining int, err error)
}
