package mongostore

import (
	"context"
	"testing"

	"shop-service/internal/models"
	"shop-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoStoreRoundTrip(t *testing.T) {
	// Integration test - requires a running MongoDB instance.
	// The port contract itself is exercised against the jsonstore backend.
	t.Skip("Integration test - requires MongoDB")

	ctx := context.Background()

	store, err := NewStore(ctx, "mongodb://localhost:27017", "shop_test")
	require.NoError(t, err)
	defer store.Close(ctx)

	product := &models.Product{
		ProductID: 1, ProductName: "Widget", Price: 10, Stock: 5, ImageURL: "x",
	}
	require.NoError(t, store.UpsertProduct(ctx, product))

	found, err := store.FindProductByName(ctx, "wid")
	require.NoError(t, err)
	assert.Equal(t, 1, found.ProductID)

	require.NoError(t, store.DeleteProductByID(ctx, 1))
	_, err = store.FindProductByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
