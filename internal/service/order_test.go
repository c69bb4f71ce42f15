package service

import (
	"context"
	"path/filepath"
	"testing"

	"shop-service/internal/models"
	"shop-service/internal/storage"
	"shop-service/internal/storage/jsonstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServices wires the managers against a real flat-file backend in a
// temp dir. Events and locking are disabled, as when Kafka and Redis are not
// configured.
func newTestServices(t *testing.T) (*CatalogService, *OrderService, storage.Store) {
	t.Helper()
	dir := t.TempDir()

	store, err := jsonstore.NewStore(
		filepath.Join(dir, "products.json"),
		filepath.Join(dir, "orders.json"),
	)
	require.NoError(t, err)

	catalog := NewCatalogService(store, nil)
	inventory := NewInventoryService(store, nil)
	orders := NewOrderService(store, inventory, nil, nil)
	return catalog, orders, store
}

func widget() *models.Product {
	return &models.Product{
		ProductID:   1,
		ProductName: "Widget",
		Price:       10,
		Stock:       5,
		ImageURL:    "x",
	}
}

func TestCheckoutCreatesOrderAndDecrementsStock(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	product, order, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, product.Stock)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, 1, order.ProductID)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, float64(20), order.TotalCost)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Equal(t, models.PlaceholderAddress, order.Address)

	status, err := orders.GetStatus(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", status)
}

func TestCheckoutThenCancelRestoresStock(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	_, order, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, orders.Cancel(ctx, order.OrderID))

	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	_, err = orders.GetStatus(ctx, order.OrderID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	_, orders, _ := newTestServices(t)

	_, _, err := orders.Checkout(context.Background(), 99, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCheckoutAllowsNegativeStock(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	product, _, err := orders.Checkout(ctx, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, -3, product.Stock)
}

func TestTotalCostIsSnapshot(t *testing.T) {
	catalog, orders, store := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	_, order, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(20), order.TotalCost)

	// A later price change must not affect the recorded total.
	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	product.Price = 99
	require.NoError(t, store.UpsertProduct(ctx, product))

	stored, err := store.FindOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, float64(20), stored.TotalCost)
}

func TestPlaceOrderDetails(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))
	_, created, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)

	placed, err := orders.PlaceOrderDetails(ctx, 1, "221B Baker Street")
	require.NoError(t, err)

	assert.Equal(t, created.OrderID, placed.OrderID)
	assert.Equal(t, "221B Baker Street", placed.Address)
	assert.Equal(t, models.OrderStatusAddressed, placed.Status)

	status, err := orders.GetStatus(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}

func TestPlaceOrderDetailsNoOrderForProduct(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	_, err := orders.PlaceOrderDetails(ctx, 1, "somewhere")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCancelUnknownOrder(t *testing.T) {
	_, orders, _ := newTestServices(t)

	err := orders.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCancelDanglingProductKeepsOrder(t *testing.T) {
	catalog, orders, store := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))
	_, order, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(ctx, 1))

	err = orders.Cancel(ctx, order.OrderID)
	assert.ErrorIs(t, err, ErrDanglingReference)

	// The failed cancel must not delete the order.
	stored, err := store.FindOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, stored.OrderID)
}

// Full round trip of the common flow: add, checkout, address, cancel.
func TestOrderLifecycleScenario(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, widget()))

	product, order, err := orders.Checkout(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, float64(20), order.TotalCost)
	assert.Equal(t, 2, order.Quantity)

	_, err = orders.PlaceOrderDetails(ctx, 1, "742 Evergreen Terrace")
	require.NoError(t, err)

	require.NoError(t, orders.Cancel(ctx, order.OrderID))

	product, err = catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	_, err = orders.GetStatus(ctx, order.OrderID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
