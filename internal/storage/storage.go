// Package storage defines the persistence port shared by the MongoDB and
// flat-file backends. Business logic is written once against Store; backend
// choice is wiring in cmd/server.
package storage

import (
	"context"
	"errors"

	"shop-service/internal/models"
)

// ErrNotFound is the normal absent-record result. Any other error returned by
// a Store implementation indicates a backend failure and maps to a 500 at the
// HTTP boundary.
var ErrNotFound = errors.New("record not found")

// Store is the persistence port. Both backends must agree on its observable
// contract: same not-found semantics, same serialized field names.
type Store interface {
	// FindProductByName returns the first product whose name contains
	// pattern, case-insensitively. Single-result semantics are deliberate
	// even when multiple products match.
	FindProductByName(ctx context.Context, pattern string) (*models.Product, error)
	FindProductByID(ctx context.Context, id int) (*models.Product, error)
	UpsertProduct(ctx context.Context, p *models.Product) error
	DeleteProductByID(ctx context.Context, id int) error

	// FindOrderByProductID returns the first order referencing the product.
	// The reference is weak and non-unique; callers get whichever order the
	// backend finds first.
	FindOrderByProductID(ctx context.Context, productID int) (*models.Order, error)
	FindOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpsertOrder(ctx context.Context, o *models.Order) error
	DeleteOrderByID(ctx context.Context, orderID string) error

	Close(ctx context.Context) error
}
