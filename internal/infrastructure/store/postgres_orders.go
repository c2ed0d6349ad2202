package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/orders"
)

// PostgresOrderStore implements orders.Store on PostgreSQL. Items and
// product detail snapshots go into JSONB columns: they are written once at
// checkout and never queried field by field.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

func (s *PostgresOrderStore) Create(ctx context.Context, o *orders.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	detailsJSON, err := json.Marshal(o.ProductDetails)
	if err != nil {
		return fmt.Errorf("marshal product details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, vendor_id, items, total_price, product_details, marketplace, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.UserID, o.VendorID, itemsJSON, o.TotalPrice, detailsJSON,
		string(o.Marketplace), string(o.Status), o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PostgresOrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, vendor_id, items, total_price, product_details, marketplace, status, created_at
		FROM orders WHERE id = $1
	`, id)

	o, err := scanOrderRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, orders.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID string) ([]*orders.Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, vendor_id, items, total_price, product_details, marketplace, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
}

func (s *PostgresOrderStore) ListAll(ctx context.Context) ([]*orders.Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, vendor_id, items, total_price, product_details, marketplace, status, created_at
		FROM orders ORDER BY created_at DESC
	`)
}

func (s *PostgresOrderStore) queryOrders(ctx context.Context, query string, args ...any) ([]*orders.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []*orders.Order
	for rows.Next() {
		o, err := scanOrderRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrderRow(scan func(dest ...any) error) (*orders.Order, error) {
	var o orders.Order
	var itemsJSON, detailsJSON []byte
	var venue, status string
	err := scan(&o.ID, &o.UserID, &o.VendorID, &itemsJSON, &o.TotalPrice, &detailsJSON, &venue, &status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(detailsJSON, &o.ProductDetails); err != nil {
		return nil, fmt.Errorf("unmarshal product details: %w", err)
	}
	o.Marketplace = catalog.Marketplace(venue)
	o.Status = orders.Status(status)
	return &o, nil
}
