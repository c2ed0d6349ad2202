package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/vendor-market/internal/catalog"
)

// PostgresCatalogStore implements catalog.Store on PostgreSQL. Stock
// mutations are single conditional UPDATEs so two concurrent checkouts can
// never both take the last unit.
type PostgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

const productColumns = `id, name, description, price, stock, category, image, vendor_id, confirmed, confirmed_by, marketplace, created_at, updated_at`

func (s *PostgresCatalogStore) Create(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Image,
		p.VendorID, p.Confirmed, p.ConfirmedBy, string(p.Marketplace), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresCatalogStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, id))
}

func (s *PostgresCatalogStore) List(ctx context.Context) ([]*catalog.Product, error) {
	return s.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY created_at DESC
	`)
}

func (s *PostgresCatalogStore) ListByVendor(ctx context.Context, vendorID string) ([]*catalog.Product, error) {
	return s.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products WHERE vendor_id = $1 ORDER BY created_at DESC
	`, vendorID)
}

func (s *PostgresCatalogStore) Update(ctx context.Context, p *catalog.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, category = $6,
			image = $7, confirmed = $8, confirmed_by = $9, marketplace = $10, updated_at = $11
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Image,
		p.Confirmed, p.ConfirmedBy, string(p.Marketplace), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *PostgresCatalogStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

// DecrementStock is the atomic check-and-write: the WHERE clause rejects
// the update when stock would go negative, so the guard and the write are
// one statement.
func (s *PostgresCatalogStore) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	var remaining int
	err := s.db.QueryRowContext(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, id, qty).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, s.classifyStockFailure(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return remaining, nil
}

func (s *PostgresCatalogStore) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var remaining int
	err := s.db.QueryRowContext(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock
	`, id, delta).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, s.classifyStockFailure(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return remaining, nil
}

// classifyStockFailure distinguishes a missing product from a guard miss.
func (s *PostgresCatalogStore) classifyStockFailure(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return catalog.ErrProductNotFound
	}
	return catalog.ErrInsufficientStock
}

func (s *PostgresCatalogStore) queryProducts(ctx context.Context, query string, args ...any) ([]*catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		var p catalog.Product
		var venue string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image,
			&p.VendorID, &p.Confirmed, &p.ConfirmedBy, &venue, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Marketplace = catalog.Marketplace(venue)
		products = append(products, &p)
	}
	return products, rows.Err()
}

func scanProduct(row *sql.Row) (*catalog.Product, error) {
	var p catalog.Product
	var venue string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image,
		&p.VendorID, &p.Confirmed, &p.ConfirmedBy, &venue, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Marketplace = catalog.Marketplace(venue)
	return &p, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
