package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/storage"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles product create/search/update/delete.
type CatalogService struct {
	store  storage.Store
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store storage.Store, events *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// Search returns the first product whose name matches pattern,
// case-insensitively.
func (s *CatalogService) Search(ctx context.Context, pattern string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Search")
	defer span.End()

	return s.store.FindProductByName(ctx, pattern)
}

// GetByID returns the product with the given productId.
func (s *CatalogService) GetByID(ctx context.Context, id int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetByID")
	defer span.End()

	return s.store.FindProductByID(ctx, id)
}

// Create persists a new product verbatim. The payload must carry productId,
// productName, price, stock and imageUrl; a zero price or zero stock is
// rejected the same as an absent field.
func (s *CatalogService) Create(ctx context.Context, p *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Create")
	defer span.End()

	if p == nil || p.ProductID == 0 || p.ProductName == "" ||
		p.Price == 0 || p.Stock == 0 || p.ImageURL == "" {
		return ErrInvalidProduct
	}

	_, err := s.store.FindProductByID(ctx, p.ProductID)
	if err == nil {
		return ErrDuplicateID
	}
	if err != storage.ErrNotFound {
		util.StorageErrorsTotal.WithLabelValues("catalog_create").Inc()
		return fmt.Errorf("failed to check for existing product: %w", err)
	}

	if err := s.store.UpsertProduct(ctx, p); err != nil {
		util.StorageErrorsTotal.WithLabelValues("catalog_create").Inc()
		return fmt.Errorf("failed to create product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.Int("product_id", p.ProductID),
		zap.String("name", p.ProductName))

	if err := s.events.PublishProductCreated(ctx, &models.ProductCreatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductCreated),
		ProductID: p.ProductID,
		Name:      p.ProductName,
		Price:     p.Price,
		Stock:     p.Stock,
	}); err != nil {
		s.logger.Error("Failed to publish ProductCreated event", zap.Error(err))
	}

	return nil
}

// SetStock sets a product's stock to an absolute value, unlike checkout's
// delta semantics, and returns the updated product.
func (s *CatalogService) SetStock(ctx context.Context, id, newStock int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SetStock")
	defer span.End()

	product, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Stock = newStock
	if err := s.store.UpsertProduct(ctx, product); err != nil {
		util.StorageErrorsTotal.WithLabelValues("catalog_set_stock").Inc()
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	util.StockUpdatesTotal.WithLabelValues(models.StockReasonSet).Inc()
	s.logger.Info("Stock set",
		zap.Int("product_id", id),
		zap.Int("stock", newStock))

	if err := s.events.PublishStockChanged(ctx, &models.StockChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeStockChanged),
		ProductID: id,
		Stock:     newStock,
		Reason:    models.StockReasonSet,
	}); err != nil {
		s.logger.Error("Failed to publish StockChanged event", zap.Error(err))
	}

	return product, nil
}

// Delete removes a product from the catalog.
func (s *CatalogService) Delete(ctx context.Context, id int) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Delete")
	defer span.End()

	if err := s.store.DeleteProductByID(ctx, id); err != nil {
		return err
	}

	util.ProductsDeletedTotal.Inc()
	s.logger.Info("Product deleted", zap.Int("product_id", id))

	if err := s.events.PublishProductDeleted(ctx, &models.ProductDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductDeleted),
		ProductID: id,
	}); err != nil {
		s.logger.Error("Failed to publish ProductDeleted event", zap.Error(err))
	}

	return nil
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
