package catalog

import (
	"context"
	"time"

	"github.com/example/vendor-market/internal/account"
	"github.com/google/uuid"
)

// Service handles catalog operations. Mutations check listing ownership:
// a vendor may only touch their own products, an admin may touch any.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the client-supplied fields of a new listing.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Marketplace string `json:"marketplace"`
}

// Create adds a new unconfirmed listing owned by vendorID.
func (s *Service) Create(ctx context.Context, vendorID string, in CreateInput) (*Product, error) {
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	if in.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}
	venue, err := ParseMarketplace(in.Marketplace)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Image:       in.Image,
		VendorID:    vendorID,
		Marketplace: venue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateInput carries the updatable fields of a listing. Zero values leave
// the current value in place, matching the partial-update behavior of the
// web client.
type UpdateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       *int   `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Marketplace string `json:"marketplace"`
}

// Update modifies a listing after an ownership check.
func (s *Service) Update(ctx context.Context, actorID string, actorRole account.Role, productID string, in UpdateInput) (*Product, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.VendorID != actorID && actorRole != account.RoleAdmin {
		return nil, ErrNotOwner
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, ErrInvalidPrice
		}
		p.Price = *in.Price
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Image != "" {
		p.Image = in.Image
	}
	if in.Marketplace != "" {
		venue, err := ParseMarketplace(in.Marketplace)
		if err != nil {
			return nil, err
		}
		p.Marketplace = venue
	}
	p.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a listing after an ownership check.
func (s *Service) Delete(ctx context.Context, actorID string, actorRole account.Role, productID string) error {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return err
	}
	if p.VendorID != actorID && actorRole != account.RoleAdmin {
		return ErrNotOwner
	}
	return s.store.Delete(ctx, productID)
}

// Confirm marks a listing as confirmed by an admin.
func (s *Service) Confirm(ctx context.Context, adminID, productID string) (*Product, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Confirmed = true
	p.ConfirmedBy = adminID
	p.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock applies a vendor-initiated manual stock change. This is the
// simple mutation path, separate from order reconciliation; the store guard
// keeps the result non-negative.
func (s *Service) AdjustStock(ctx context.Context, actorID string, actorRole account.Role, productID string, delta int) (*Product, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.VendorID != actorID && actorRole != account.RoleAdmin {
		return nil, ErrNotOwner
	}

	remaining, err := s.store.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	p.Stock = remaining
	p.UpdatedAt = time.Now()
	return p, nil
}

// Get returns a listing by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.Get(ctx, id)
}

// List returns all listings.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.store.List(ctx)
}

// ListByVendor returns a vendor's own listings.
func (s *Service) ListByVendor(ctx context.Context, vendorID string) ([]*Product, error) {
	return s.store.ListByVendor(ctx, vendorID)
}
