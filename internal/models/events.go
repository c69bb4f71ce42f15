package models

import "time"

// Event types
const (
	EventTypeProductCreated = "PRODUCT_CREATED"
	EventTypeProductDeleted = "PRODUCT_DELETED"
	EventTypeStockChanged   = "STOCK_CHANGED"
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderPlaced    = "ORDER_PLACED"
	EventTypeOrderCancelled = "ORDER_CANCELLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductCreatedEvent published when a product is added to the catalog
type ProductCreatedEvent struct {
	BaseEvent
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// ProductDeletedEvent published when a product is removed from the catalog
type ProductDeletedEvent struct {
	BaseEvent
	ProductID int `json:"product_id"`
}

// StockChangedEvent published on any stock mutation: checkout decrement,
// cancel restock, or an absolute set via the update route
type StockChangedEvent struct {
	BaseEvent
	ProductID int    `json:"product_id"`
	Stock     int    `json:"stock"`
	Reason    string `json:"reason"`
}

// Stock change reasons
const (
	StockReasonCheckout = "checkout"
	StockReasonRestock  = "restock"
	StockReasonSet      = "set"
)

// OrderCreatedEvent published when checkout creates a new order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID   string  `json:"order_id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	TotalCost float64 `json:"total_cost"`
}

// OrderPlacedEvent published when an order receives its delivery address
type OrderPlacedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	ProductID int    `json:"product_id"`
	Address   string `json:"address"`
}

// OrderCancelledEvent published when an order is cancelled and stock restored
type OrderCancelledEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
