package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/orders"
)

// In-memory store implementations. Used as the default backend for local
// development and as fixtures in tests. Values are copied on the way in and
// out so callers never share memory with the store.

// MemoryAccountStore implements account.Store in memory.
type MemoryAccountStore struct {
	mu    sync.RWMutex
	users map[string]*account.User
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{users: make(map[string]*account.User)}
}

func (s *MemoryAccountStore) Create(_ context.Context, u *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return account.ErrEmailTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryAccountStore) Get(_ context.Context, id string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryAccountStore) GetByEmail(_ context.Context, email string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, account.ErrUserNotFound
}

func (s *MemoryAccountStore) List(_ context.Context) ([]*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*account.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryAccountStore) Update(_ context.Context, u *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return account.ErrUserNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// MemoryCatalogStore implements catalog.Store in memory. The mutex makes
// DecrementStock's check-and-write atomic, matching the conditional UPDATE
// the Postgres store uses.
type MemoryCatalogStore struct {
	mu       sync.RWMutex
	products map[string]*catalog.Product
}

func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{products: make(map[string]*catalog.Product)}
}

func (s *MemoryCatalogStore) Create(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryCatalogStore) Get(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryCatalogStore) List(_ context.Context) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryCatalogStore) ListByVendor(_ context.Context, vendorID string) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*catalog.Product
	for _, p := range s.products {
		if p.VendorID == vendorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryCatalogStore) Update(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return catalog.ErrProductNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryCatalogStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryCatalogStore) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, catalog.ErrProductNotFound
	}
	if p.Stock < qty {
		return 0, catalog.ErrInsufficientStock
	}
	p.Stock -= qty
	return p.Stock, nil
}

func (s *MemoryCatalogStore) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, catalog.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return 0, catalog.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

// MemoryOrderStore implements orders.Store in memory.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*orders.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]*orders.Order)}
}

func (s *MemoryOrderStore) Create(_ context.Context, o *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemoryOrderStore) Get(_ context.Context, id string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *MemoryOrderStore) ListByUser(_ context.Context, userID string) ([]*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*orders.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrderStore) ListAll(_ context.Context) ([]*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*orders.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneOrder(o *orders.Order) *orders.Order {
	cp := *o
	cp.Items = append([]orders.OrderItem(nil), o.Items...)
	cp.ProductDetails = append([]orders.ProductDetail(nil), o.ProductDetails...)
	return &cp
}
