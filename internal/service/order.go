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

// ProductLocker serializes stock mutations for one product across requests.
// Implemented by redisclient.Client.
type ProductLocker interface {
	WithProductLock(ctx context.Context, productID int, fn func() error) error
}

// OrderService owns the order lifecycle: checkout creates the order and
// decrements stock, addressing sets the delivery address, cancellation
// restores stock and deletes the order. Checkout and cancel are each two
// writes with no transaction across the storage backends; when a locker is
// configured those sequences at least run one-at-a-time per product.
type OrderService struct {
	store     storage.Store
	inventory *InventoryService
	events    *broker.EventPublisher
	locker    ProductLocker
	logger    *zap.Logger
}

// NewOrderService creates a new order service. locker may be nil, in which
// case concurrent mutations of the same product can race.
func NewOrderService(
	store storage.Store,
	inventory *InventoryService,
	events *broker.EventPublisher,
	locker ProductLocker,
) *OrderService {
	return &OrderService{
		store:     store,
		inventory: inventory,
		events:    events,
		locker:    locker,
		logger:    util.GetLogger(),
	}
}

func (s *OrderService) withProductLock(ctx context.Context, productID int, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	return s.locker.WithProductLock(ctx, productID, fn)
}

// Checkout decrements the product's stock by quantity and creates a new
// order with a fresh identifier, a placeholder address and a total cost
// snapshotted from the current price. Returns the updated product and the
// new order.
func (s *OrderService) Checkout(ctx context.Context, productID, quantity int) (*models.Product, *models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	var (
		product *models.Product
		order   *models.Order
	)

	err := s.withProductLock(ctx, productID, func() error {
		var err error
		product, err = s.inventory.DecrementForCheckout(ctx, productID, quantity)
		if err != nil {
			if err == storage.ErrNotFound {
				util.CheckoutsFailedTotal.WithLabelValues("product_not_found").Inc()
			} else {
				util.CheckoutsFailedTotal.WithLabelValues("storage_error").Inc()
			}
			return err
		}

		order = &models.Order{
			OrderID:   uuid.New().String(),
			Address:   models.PlaceholderAddress,
			ProductID: productID,
			Status:    models.OrderStatusCreated,
			TotalCost: float64(quantity) * product.Price,
			Quantity:  quantity,
		}

		// Stock is already decremented at this point. A failure here leaves
		// the decrement applied with no order recorded; see DESIGN.md.
		if err := s.store.UpsertOrder(ctx, order); err != nil {
			util.CheckoutsFailedTotal.WithLabelValues("order_write_failed").Inc()
			return fmt.Errorf("failed to persist order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	util.CheckoutsTotal.Inc()
	s.logger.Info("Checkout completed",
		zap.String("order_id", order.OrderID),
		zap.Int("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Float64("total_cost", order.TotalCost))

	if err := s.events.PublishOrderCreated(ctx, &models.OrderCreatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderCreated),
		OrderID:   order.OrderID,
		ProductID: productID,
		Quantity:  quantity,
		TotalCost: order.TotalCost,
	}); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return product, order, nil
}

// PlaceOrderDetails sets the delivery address on the first order referencing
// the product and marks it addressed. The product-to-order reference is weak
// and non-unique; with several orders for one product, whichever the backend
// finds first is updated.
func (s *OrderService) PlaceOrderDetails(ctx context.Context, productID int, address string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrderDetails")
	defer span.End()

	order, err := s.store.FindOrderByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	order.Address = address
	order.Status = models.OrderStatusAddressed

	if err := s.store.UpsertOrder(ctx, order); err != nil {
		util.StorageErrorsTotal.WithLabelValues("order_place").Inc()
		return nil, fmt.Errorf("failed to persist order details: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order addressed",
		zap.String("order_id", order.OrderID),
		zap.Int("product_id", productID))

	if err := s.events.PublishOrderPlaced(ctx, &models.OrderPlacedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderPlaced),
		OrderID:   order.OrderID,
		ProductID: productID,
		Address:   address,
	}); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order, nil
}

// GetStatus returns the status string of the order with the given id.
func (s *OrderService) GetStatus(ctx context.Context, orderID string) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetStatus")
	defer span.End()

	order, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

// Cancel restores the order's quantity to the referenced product's stock and
// then deletes the order, in that sub-step order. If the referenced product
// no longer exists the cancellation fails and the order is left in place.
func (s *OrderService) Cancel(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	order, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	err = s.withProductLock(ctx, order.ProductID, func() error {
		// Dangling reference check runs before any mutation so a failed
		// cancel leaves both records untouched.
		if _, err := s.store.FindProductByID(ctx, order.ProductID); err != nil {
			if err == storage.ErrNotFound {
				return ErrDanglingReference
			}
			return err
		}

		if _, err := s.inventory.RestockForCancel(ctx, order.ProductID, order.Quantity); err != nil {
			return err
		}

		// A failure here leaves stock restored with the order still present;
		// see DESIGN.md.
		if err := s.store.DeleteOrderByID(ctx, order.OrderID); err != nil {
			util.StorageErrorsTotal.WithLabelValues("order_cancel").Inc()
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.String("order_id", order.OrderID),
		zap.Int("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity))

	if err := s.events.PublishOrderCancelled(ctx, &models.OrderCancelledEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderCancelled),
		OrderID:   order.OrderID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	}); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}

	return nil
}
