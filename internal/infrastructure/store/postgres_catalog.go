package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/unasp-marketplace/internal/domain/product"
)

// PostgresCatalog reads product listings from the products table
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// GetProduct returns the current listing for id. Deleted listings are not found.
// Rows that fail product validation are reported as errors.
func (c *PostgresCatalog) GetProduct(ctx context.Context, id string) (product.Product, error) {
	var p product.Product
	err := c.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, stock
		 FROM products
		 WHERE id = $1 AND NOT is_deleted`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return product.Product{}, product.ErrProductNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	if err := p.Validate(); err != nil {
		return product.Product{}, fmt.Errorf("invalid listing %s: %w", id, err)
	}
	return p, nil
}
