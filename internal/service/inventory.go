package service

import (
	"context"
	"fmt"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/storage"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// InventoryService enforces the stock-mutation rules: delta decrement at
// checkout, symmetric increment on cancel. Absolute sets go through
// CatalogService.SetStock instead.
type InventoryService struct {
	store  storage.Store
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store storage.Store, events *broker.EventPublisher) *InventoryService {
	return &InventoryService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// DecrementForCheckout subtracts quantity from the product's stock and
// persists it. There is no floor at zero: stock may go negative, matching the
// behavior existing clients see.
func (s *InventoryService) DecrementForCheckout(ctx context.Context, productID, quantity int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.DecrementForCheckout")
	defer span.End()

	return s.adjustStock(ctx, productID, -quantity, models.StockReasonCheckout)
}

// RestockForCancel adds quantity back to the product's stock and persists it.
// Used only by order cancellation.
func (s *InventoryService) RestockForCancel(ctx context.Context, productID, quantity int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.RestockForCancel")
	defer span.End()

	return s.adjustStock(ctx, productID, quantity, models.StockReasonRestock)
}

func (s *InventoryService) adjustStock(ctx context.Context, productID, delta int, reason string) (*models.Product, error) {
	product, err := s.store.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Stock += delta
	if err := s.store.UpsertProduct(ctx, product); err != nil {
		util.StorageErrorsTotal.WithLabelValues("inventory_adjust").Inc()
		return nil, fmt.Errorf("failed to persist stock change: %w", err)
	}

	util.StockUpdatesTotal.WithLabelValues(reason).Inc()
	s.logger.Info("Stock adjusted",
		zap.Int("product_id", productID),
		zap.Int("delta", delta),
		zap.Int("stock", product.Stock),
		zap.String("reason", reason))

	if err := s.events.PublishStockChanged(ctx, &models.StockChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeStockChanged),
		ProductID: productID,
		Stock:     product.Stock,
		Reason:    reason,
	}); err != nil {
		s.logger.Error("Failed to publish StockChanged event", zap.Error(err))
	}

	return product, nil
}
