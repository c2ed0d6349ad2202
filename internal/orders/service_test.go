package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/infrastructure/store"
	"github.com/example/vendor-market/internal/orders"
)

const venue = catalog.VenueSristiCampus

type fixture struct {
	catalog  *store.MemoryCatalogStore
	orders   *store.MemoryOrderStore
	accounts *store.MemoryAccountStore
	svc      *orders.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog:  store.NewMemoryCatalogStore(),
		orders:   store.NewMemoryOrderStore(),
		accounts: store.NewMemoryAccountStore(),
	}
	f.svc = orders.NewService(f.catalog, f.orders, f.accounts, nil)
	return f
}

func (f *fixture) addProduct(t *testing.T, id, name, vendorID string, price, stock int) {
	t.Helper()
	err := f.catalog.Create(context.Background(), &catalog.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Stock:       stock,
		VendorID:    vendorID,
		Marketplace: venue,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	require.NoError(t, err)
}

func (f *fixture) addUser(t *testing.T, id, name, email string) {
	t.Helper()
	err := f.accounts.Create(context.Background(), &account.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      account.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// ============================================
// PlaceOrder - happy path
// ============================================

func TestService_PlaceOrder_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)
	f.addProduct(t, "p2", "Clay Pot", "vendor-1", 1200, 4)

	cart := []orders.CartItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
	}

	o, err := f.svc.PlaceOrder(ctx, "user-1", cart, 2700, venue)

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, "vendor-1", o.VendorID)
	assert.Equal(t, 2700, o.TotalPrice)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, venue, o.Marketplace)

	// Stock committed for every line.
	assert.Equal(t, 7, f.stockOf(t, "p1"))
	assert.Equal(t, 3, f.stockOf(t, "p2"))

	// Items carry name and unit price snapshots.
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Honey Jar", o.Items[0].Name)
	assert.Equal(t, 500, o.Items[0].Price)

	// Order persisted.
	stored, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.TotalPrice, stored.TotalPrice)
}

func TestService_PlaceOrder_SnapshotsStockMovement(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	o, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 4}}, 2000, venue)

	require.NoError(t, err)
	require.Len(t, o.ProductDetails, 1)
	d := o.ProductDetails[0]
	assert.Equal(t, "Honey Jar", d.ProductName)
	assert.Equal(t, 10, d.InitialStock)
	assert.Equal(t, 4, d.QuantityCheckedOut)
	assert.Equal(t, 6, d.RemainingStock)
}

func TestService_PlaceOrder_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	pub := &capturingPublisher{}
	f.svc = orders.NewService(f.catalog, f.orders, f.accounts, pub)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	o, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 1}}, 500, venue)

	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(orders.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, o.ID, ev.OrderID)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, 500, ev.TotalPrice)
	assert.Equal(t, string(venue), ev.Marketplace)
}

func TestService_PlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	pub := &capturingPublisher{err: errors.New("broker down")}
	f.svc = orders.NewService(f.catalog, f.orders, f.accounts, pub)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	o, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 1}}, 500, venue)

	require.NoError(t, err)
	assert.Equal(t, 9, f.stockOf(t, "p1"))
	_, err = f.orders.Get(context.Background(), o.ID)
	assert.NoError(t, err)
}

// Two identical submissions both commit; there is no cart-level
// deduplication.
func TestService_PlaceOrder_RepeatSubmissionsBothCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)
	cart := []orders.CartItem{{ProductID: "p1", Quantity: 2}}

	o1, err := f.svc.PlaceOrder(ctx, "user-1", cart, 1000, venue)
	require.NoError(t, err)
	o2, err := f.svc.PlaceOrder(ctx, "user-1", cart, 1000, venue)
	require.NoError(t, err)

	assert.NotEqual(t, o1.ID, o2.ID)
	assert.Equal(t, 6, f.stockOf(t, "p1"))
}

// ============================================
// PlaceOrder - validation
// ============================================

func TestService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", nil, 100, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "cart is empty")
}

func TestService_PlaceOrder_NonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	for _, qty := range []int{0, -1} {
		_, err := f.svc.PlaceOrder(context.Background(), "user-1",
			[]orders.CartItem{{ProductID: "p1", Quantity: qty}}, 500, venue)

		var verr *orders.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Msg, "quantity")
	}
	assert.Equal(t, 10, f.stockOf(t, "p1"))
}

func TestService_PlaceOrder_NonPositiveTotal(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	_, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 1}}, 0, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestService_PlaceOrder_UnknownVenue(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	_, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 1}}, 500, "Somewhere Else")

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "marketplace")
}

func TestService_PlaceOrder_DeclaredTotalMismatch(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	// The total is recomputed from live unit prices; a stale client total
	// is rejected rather than trusted.
	_, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 2}}, 900, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "total")
	assert.Equal(t, 10, f.stockOf(t, "p1"))
}

func TestService_PlaceOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "nope", Quantity: 1}}, 500, venue)

	var nferr *orders.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "product", nferr.Resource)
	assert.Equal(t, "nope", nferr.ID)
}

func TestService_PlaceOrder_FirstProductWithoutVendor(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Orphan", "", 500, 10)

	_, err := f.svc.PlaceOrder(context.Background(), "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 1}}, 500, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "no vendor")
}

// ============================================
// PlaceOrder - atomicity
// ============================================

// A later line failing the stock check must leave earlier lines untouched:
// the whole cart is rejected before any stock moves.
func TestService_PlaceOrder_InsufficientLineRejectsWholeCart(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 100, 10)
	f.addProduct(t, "p2", "Clay Pot", "vendor-1", 100, 2)

	cart := []orders.CartItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 5},
	}

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", cart, 800, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "Clay Pot")

	assert.Equal(t, 10, f.stockOf(t, "p1"))
	assert.Equal(t, 2, f.stockOf(t, "p2"))

	all, listErr := f.orders.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

// A decrement that fails after earlier lines committed (stock taken by a
// concurrent order between validation and commit) rolls the earlier lines
// back.
func TestService_PlaceOrder_CommitFailureRollsBackAppliedLines(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 100, 10)
	f.addProduct(t, "p2", "Clay Pot", "vendor-1", 100, 5)

	flaky := &racingCatalog{Store: f.catalog, stealID: "p2", stealQty: 5}
	f.svc = orders.NewService(flaky, f.orders, f.accounts, nil)

	cart := []orders.CartItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 5},
	}

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", cart, 800, venue)

	var verr *orders.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "Clay Pot")

	// p1's decrement was applied, then reversed.
	assert.Equal(t, 10, f.stockOf(t, "p1"))

	all, listErr := f.orders.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestService_PlaceOrder_OrderWriteFailureRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 100, 10)
	f.addProduct(t, "p2", "Clay Pot", "vendor-1", 100, 5)

	broken := &failingOrderStore{Store: f.orders}
	f.svc = orders.NewService(f.catalog, broken, f.accounts, nil)

	cart := []orders.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", cart, 300, venue)

	var perr *orders.PersistenceError
	require.ErrorAs(t, err, &perr)

	assert.Equal(t, 10, f.stockOf(t, "p1"))
	assert.Equal(t, 5, f.stockOf(t, "p2"))
}

// ============================================
// Read paths
// ============================================

func TestService_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "missing")

	var nferr *orders.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "order", nferr.Resource)
}

func TestService_UserOrders_NewestFirstWithVendorName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "vendor-1", "Asha Crafts", "asha@example.com")

	older := &orders.Order{
		ID: "o1", UserID: "user-1", VendorID: "vendor-1",
		TotalPrice: 100, Marketplace: venue, Status: orders.StatusPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &orders.Order{
		ID: "o2", UserID: "user-1", VendorID: "vendor-1",
		TotalPrice: 200, Marketplace: venue, Status: orders.StatusPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.orders.Create(ctx, older))
	require.NoError(t, f.orders.Create(ctx, newer))

	views, err := f.svc.UserOrders(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "o2", views[0].ID)
	assert.Equal(t, "o1", views[1].ID)
	assert.Equal(t, "Asha Crafts", views[0].VendorName)
}

func TestService_AllOrders_ResolvesNamesAndSnapshotDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "user-1", "Ravi", "ravi@example.com")
	f.addUser(t, "vendor-1", "Asha Crafts", "asha@example.com")
	f.addProduct(t, "p1", "Honey Jar", "vendor-1", 500, 10)

	o, err := f.svc.PlaceOrder(ctx, "user-1",
		[]orders.CartItem{{ProductID: "p1", Quantity: 4}}, 2000, venue)
	require.NoError(t, err)

	// Stock moves after the order committed; the order's details must not.
	_, err = f.catalog.AdjustStock(ctx, "p1", -5)
	require.NoError(t, err)

	views, err := f.svc.AllOrders(ctx)

	require.NoError(t, err)
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, o.ID, v.ID)
	assert.Equal(t, "Ravi", v.UserName)
	assert.Equal(t, "ravi@example.com", v.UserEmail)
	assert.Equal(t, "Asha Crafts", v.VendorName)
	require.Len(t, v.ProductDetails, 1)
	assert.Equal(t, 10, v.ProductDetails[0].InitialStock)
	assert.Equal(t, 6, v.ProductDetails[0].RemainingStock)
}

func TestService_AllOrders_MissingDetailsRenderEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	legacy := &orders.Order{
		ID: "o-legacy", UserID: "user-1", VendorID: "vendor-1",
		TotalPrice: 100, Marketplace: venue, Status: orders.StatusPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.orders.Create(ctx, legacy))

	views, err := f.svc.AllOrders(ctx)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.NotNil(t, views[0].ProductDetails)
	assert.Empty(t, views[0].ProductDetails)
}

// ============================================
// Test doubles
// ============================================

type capturingPublisher struct {
	events []any
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// racingCatalog simulates a concurrent order taking stealQty units of
// stealID between validation and commit.
type racingCatalog struct {
	catalog.Store
	stealID  string
	stealQty int
	stolen   bool
}

func (c *racingCatalog) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	if !c.stolen && id == c.stealID {
		c.stolen = true
		if _, err := c.Store.DecrementStock(ctx, c.stealID, c.stealQty); err != nil {
			return 0, err
		}
	}
	return c.Store.DecrementStock(ctx, id, qty)
}

type failingOrderStore struct {
	orders.Store
}

func (s *failingOrderStore) Create(context.Context, *orders.Order) error {
	return errors.New("write failed")
}
