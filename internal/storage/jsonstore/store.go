// Package jsonstore implements the storage port on top of two flat JSON
// files, one array of products and one of orders. The whole working set is
// loaded once at construction and every mutation rewrites the owning file, so
// external edits to the files during the process lifetime are not observed.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"shop-service/internal/models"
	"shop-service/internal/storage"
)

type Store struct {
	mu sync.Mutex

	productsPath string
	ordersPath   string

	products []models.Product
	orders   []models.Order
}

// NewStore loads both collections into memory. A missing file starts its
// collection empty; it is created on the first flush.
func NewStore(productsPath, ordersPath string) (*Store, error) {
	s := &Store{
		productsPath: productsPath,
		ordersPath:   ordersPath,
	}

	if err := loadArray(productsPath, &s.products); err != nil {
		return nil, fmt.Errorf("failed to load products file: %w", err)
	}
	if err := loadArray(ordersPath, &s.orders); err != nil {
		return nil, fmt.Errorf("failed to load orders file: %w", err)
	}

	return s, nil
}

func loadArray(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// flushProducts serializes the full product snapshot back to disk.
// Callers must hold s.mu.
func (s *Store) flushProducts() error {
	data, err := json.MarshalIndent(s.products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	if err := os.WriteFile(s.productsPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write products file: %w", err)
	}
	return nil
}

// flushOrders serializes the full order snapshot back to disk.
// Callers must hold s.mu.
func (s *Store) flushOrders() error {
	data, err := json.MarshalIndent(s.orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}
	if err := os.WriteFile(s.ordersPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write orders file: %w", err)
	}
	return nil
}

// FindProductByName returns the first product whose name contains pattern,
// case-insensitively.
func (s *Store) FindProductByName(ctx context.Context, pattern string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(pattern)
	for i := range s.products {
		if strings.Contains(strings.ToLower(s.products[i].ProductName), needle) {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

// FindProductByID retrieves a product by its client-assigned id.
func (s *Store) FindProductByID(ctx context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ProductID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

// UpsertProduct replaces the product with the same productId, or appends it.
func (s *Store) UpsertProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ProductID == p.ProductID {
			s.products[i] = *p
			return s.flushProducts()
		}
	}
	s.products = append(s.products, *p)
	return s.flushProducts()
}

// DeleteProductByID removes a product from the snapshot and flushes.
func (s *Store) DeleteProductByID(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ProductID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return s.flushProducts()
		}
	}
	return storage.ErrNotFound
}

// FindOrderByProductID returns the first order referencing the product.
func (s *Store) FindOrderByProductID(ctx context.Context, productID int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ProductID == productID {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, storage.ErrNotFound
}

// FindOrderByID retrieves an order by its generated identifier.
func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, storage.ErrNotFound
}

// UpsertOrder replaces the order with the same O_ID, or appends it.
func (s *Store) UpsertOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].OrderID == o.OrderID {
			s.orders[i] = *o
			return s.flushOrders()
		}
	}
	s.orders = append(s.orders, *o)
	return s.flushOrders()
}

// DeleteOrderByID removes an order from the snapshot and flushes.
func (s *Store) DeleteOrderByID(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return s.flushOrders()
		}
	}
	return storage.ErrNotFound
}

// Close is a no-op; every mutation has already been flushed.
func (s *Store) Close(ctx context.Context) error {
	return nil
}
