package broker

import (
	"context"
	"fmt"

	"shop-service/internal/models"
)

// EventPublisher publishes domain events after successful mutations. A nil
// *EventPublisher is valid and drops every event, so callers do not need to
// guard for the no-Kafka configuration.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductCreated publishes ProductCreated event
func (ep *EventPublisher) PublishProductCreated(ctx context.Context, event *models.ProductCreatedEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishProductDeleted publishes ProductDeleted event
func (ep *EventPublisher) PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishStockChanged publishes StockChanged event
func (ep *EventPublisher) PublishStockChanged(ctx context.Context, event *models.StockChangedEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderCancelled publishes OrderCancelled event
func (ep *EventPublisher) PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	if ep == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

func productKey(productID int) string {
	return fmt.Sprintf("product-%d", productID)
}

func orderKey(orderID string) string {
	return fmt.Sprintf("order-%s", orderID)
}
