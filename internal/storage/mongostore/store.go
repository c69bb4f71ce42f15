// Package mongostore implements the storage port on MongoDB. Collection
// names and field names match the pre-existing deployment ("products" and
// "order"), so the service can run against data written by earlier clients.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-service/internal/models"
	"shop-service/internal/storage"
)

type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	orders   *mongo.Collection
}

// NewStore connects to MongoDB and pings it before returning.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		products: db.Collection("products"),
		orders:   db.Collection("order"),
	}, nil
}

// FindProductByName returns the first product whose name matches pattern as a
// case-insensitive regex, so plain strings behave as substring search.
func (s *Store) FindProductByName(ctx context.Context, pattern string) (*models.Product, error) {
	filter := bson.M{"productName": primitive.Regex{Pattern: pattern, Options: "i"}}

	var p models.Product
	err := s.products.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &p, nil
}

// FindProductByID retrieves a product by its client-assigned id.
func (s *Store) FindProductByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"productId": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &p, nil
}

// UpsertProduct replaces the document with the same productId, inserting it
// if absent.
func (s *Store) UpsertProduct(ctx context.Context, p *models.Product) error {
	_, err := s.products.ReplaceOne(ctx,
		bson.M{"productId": p.ProductID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", p.ProductID, err)
	}
	return nil
}

// DeleteProductByID removes a product document.
func (s *Store) DeleteProductByID(ctx context.Context, id int) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"productId": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindOrderByProductID returns the first order referencing the product.
func (s *Store) FindOrderByProductID(ctx context.Context, productID int) (*models.Order, error) {
	var o models.Order
	err := s.orders.FindOne(ctx, bson.M{"O_P_ID": productID}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order for product %d: %w", productID, err)
	}
	return &o, nil
}

// FindOrderByID retrieves an order by its generated identifier.
func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := s.orders.FindOne(ctx, bson.M{"O_ID": orderID}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	return &o, nil
}

// UpsertOrder replaces the document with the same O_ID, inserting it if
// absent.
func (s *Store) UpsertOrder(ctx context.Context, o *models.Order) error {
	_, err := s.orders.ReplaceOne(ctx,
		bson.M{"O_ID": o.OrderID}, o, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", o.OrderID, err)
	}
	return nil
}

// DeleteOrderByID removes an order document.
func (s *Store) DeleteOrderByID(ctx context.Context, orderID string) error {
	res, err := s.orders.DeleteOne(ctx, bson.M{"O_ID": orderID})
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
