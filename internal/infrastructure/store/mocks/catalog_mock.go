package mocks

import (
	"context"
	"sync"

	"github.com/example/unasp-marketplace/internal/domain/product"
)

// MockCatalog is an in-memory product.Catalog for testing
type MockCatalog struct {
	mu       sync.RWMutex
	products map[string]product.Product

	GetErr error
}

// NewMockCatalog creates a catalog preloaded with products
func NewMockCatalog(products ...product.Product) *MockCatalog {
	c := &MockCatalog{products: make(map[string]product.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// GetProduct returns the stored product or product.ErrProductNotFound
func (c *MockCatalog) GetProduct(_ context.Context, id string) (product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.GetErr != nil {
		return product.Product{}, c.GetErr
	}
	p, ok := c.products[id]
	if !ok {
		return product.Product{}, product.ErrProductNotFound
	}
	return p, nil
}
