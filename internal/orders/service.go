package orders

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/google/uuid"
)

// Publisher emits domain events after a successful commit. The kafka
// producer satisfies this; a nil Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service is the order reconciliation service. It validates a submitted
// cart, adjusts stock all-or-nothing, snapshots pre/post stock per line and
// persists the order.
type Service struct {
	catalog  catalog.Store
	orders   Store
	accounts account.Store
	producer Publisher
}

func NewService(catalogStore catalog.Store, orderStore Store, accountStore account.Store, producer Publisher) *Service {
	return &Service{
		catalog:  catalogStore,
		orders:   orderStore,
		accounts: accountStore,
		producer: producer,
	}
}

// PlaceOrder reconciles a cart into a committed order.
//
// Phase one resolves every product, derives the vendor of record from the
// first line, verifies stock and recomputes the total from live unit
// prices, rejecting on mismatch with the declared total. Phase two applies
// atomic conditional decrements per line; if any line fails (a concurrent
// order may have taken the stock since phase one), every decrement already
// applied is reversed before returning. No order record is written on any
// failure path, so a failed call leaves stock exactly as it found it.
func (s *Service) PlaceOrder(ctx context.Context, userID string, cart []CartItem, declaredTotal int, marketplace catalog.Marketplace) (*Order, error) {
	if len(cart) == 0 {
		return nil, validationf("cart is empty")
	}
	for _, item := range cart {
		if item.Quantity <= 0 {
			return nil, validationf("quantity must be positive for product %s", item.ProductID)
		}
	}
	if declaredTotal <= 0 {
		return nil, validationf("total price must be positive")
	}
	if !marketplace.Valid() {
		return nil, validationf("unknown marketplace venue: %s", marketplace)
	}

	// Phase one: resolve and validate every line before touching stock.
	resolved := make([]*catalog.Product, len(cart))
	vendorID := ""
	total := 0
	for i, item := range cart {
		p, err := s.catalog.Get(ctx, item.ProductID)
		if err == catalog.ErrProductNotFound {
			return nil, &NotFoundError{Resource: "product", ID: item.ProductID}
		}
		if err != nil {
			return nil, &PersistenceError{Op: "resolve product", Err: err}
		}
		if i == 0 {
			if p.VendorID == "" {
				return nil, validationf("product %s has no vendor", p.Name)
			}
			vendorID = p.VendorID
		}
		if p.Stock < item.Quantity {
			return nil, validationf("insufficient stock for %s: have %d, want %d", p.Name, p.Stock, item.Quantity)
		}
		resolved[i] = p
		total += p.Price * item.Quantity
	}
	if total != declaredTotal {
		return nil, validationf("declared total %d does not match computed total %d", declaredTotal, total)
	}

	// Phase two: conditional decrements, reversing on first failure.
	details := make([]ProductDetail, 0, len(cart))
	for i, item := range cart {
		remaining, err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.rollbackDecrements(ctx, cart[:i])
			if err == catalog.ErrInsufficientStock {
				return nil, validationf("insufficient stock for %s", resolved[i].Name)
			}
			if err == catalog.ErrProductNotFound {
				return nil, &NotFoundError{Resource: "product", ID: item.ProductID}
			}
			return nil, &PersistenceError{Op: "decrement stock", Err: err}
		}
		details = append(details, ProductDetail{
			ProductName:        resolved[i].Name,
			InitialStock:       remaining + item.Quantity,
			QuantityCheckedOut: item.Quantity,
			RemainingStock:     remaining,
		})
	}

	items := make([]OrderItem, len(cart))
	for i, item := range cart {
		items[i] = OrderItem{
			ProductID: item.ProductID,
			Name:      resolved[i].Name,
			Quantity:  item.Quantity,
			Price:     resolved[i].Price,
		}
	}

	o := &Order{
		ID:             uuid.New().String(),
		UserID:         userID,
		VendorID:       vendorID,
		Items:          items,
		TotalPrice:     total,
		ProductDetails: details,
		Marketplace:    marketplace,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.rollbackDecrements(ctx, cart)
		return nil, &PersistenceError{Op: "create order", Err: err}
	}

	s.publishPlaced(ctx, o)
	return o, nil
}

// rollbackDecrements re-adds stock taken by already-applied lines.
func (s *Service) rollbackDecrements(ctx context.Context, applied []CartItem) {
	for _, item := range applied {
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[Orders] Failed to restore %d units of product %s: %v", item.Quantity, item.ProductID, err)
		}
	}
}

func (s *Service) publishPlaced(ctx context.Context, o *Order) {
	if s.producer == nil {
		return
	}
	ev := OrderPlacedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		VendorID:    o.VendorID,
		Items:       o.Items,
		TotalPrice:  o.TotalPrice,
		Marketplace: string(o.Marketplace),
		PlacedAt:    o.CreatedAt,
	}
	// Best-effort: a publish failure must not fail the committed order.
	if err := s.producer.Publish(ctx, o.ID, ev); err != nil {
		log.Printf("[Orders] Failed to publish %s for order %s: %v", EventOrderPlaced, o.ID, err)
	}
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err == ErrOrderNotFound {
		return nil, &NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get order", Err: err}
	}
	return o, nil
}

// UserOrders returns a user's orders newest-first, with the vendor name
// resolved for display.
func (s *Service) UserOrders(ctx context.Context, userID string) ([]*OrderView, error) {
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	views := make([]*OrderView, len(list))
	for i, o := range list {
		views[i] = &OrderView{Order: *o, VendorName: s.lookupName(ctx, o.VendorID)}
	}
	return views, nil
}

// AllOrders returns every order with user and vendor names resolved
// (admin dashboard). Product details come from the snapshot embedded at
// order creation; orders persisted without one render an empty list rather
// than a reconstruction from live stock, which would drift as stock moves.
func (s *Service) AllOrders(ctx context.Context) ([]*OrderView, error) {
	list, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	views := make([]*OrderView, len(list))
	for i, o := range list {
		v := &OrderView{Order: *o, VendorName: s.lookupName(ctx, o.VendorID)}
		if u, err := s.accounts.Get(ctx, o.UserID); err == nil {
			v.UserName = u.Name
			v.UserEmail = u.Email
		}
		if v.ProductDetails == nil {
			v.ProductDetails = []ProductDetail{}
		}
		views[i] = v
	}
	return views, nil
}

func (s *Service) lookupName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Name
}
