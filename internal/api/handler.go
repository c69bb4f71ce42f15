package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/storage"
	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *service.CatalogService, orders *service.OrderService) *Handler {
	return &Handler{
		catalog: catalog,
		orders:  orders,
		logger:  util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes. Paths and parameter names are frozen wire
// format; existing clients depend on them.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/search", h.searchProduct)
	router.GET("/search_id", h.searchProductByID)
	router.PUT("/checkout", h.checkout)

	router.POST("/product", h.addProduct)
	router.PUT("/product", h.updateStock)
	router.DELETE("/product", h.deleteProduct)

	router.POST("/order", h.placeOrder)
	router.GET("/status", h.orderStatus)
	router.DELETE("/cancel", h.cancelOrder)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// searchProduct handles product search by name
func (h *Handler) searchProduct(c *gin.Context) {
	searchParam := c.Query("searchParam")
	if searchParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing searchParam in the request body",
		})
		return
	}

	product, err := h.catalog.Search(c.Request.Context(), searchParam)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// searchProductByID handles product search by id
func (h *Handler) searchProductByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid id parameter",
		})
		return
	}

	product, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// checkout handles stock decrement plus order creation
func (h *Handler) checkout(c *gin.Context) {
	idStr := c.Query("id")
	quantityStr := c.Query("quantity")

	if idStr == "" || quantityStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing id or quantity in the request query parameters",
		})
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity parameter"})
		return
	}

	product, order, err := h.orders.Checkout(c.Request.Context(), id, quantity)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        "Stock and order updated successfully",
		"updatedProduct": product,
		"newOrder":       order,
	})
}

// addProduct handles product creation
func (h *Handler) addProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.catalog.Create(c.Request.Context(), &product)
	switch {
	case errors.Is(err, service.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	case errors.Is(err, service.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Product with the same productId already exists",
		})
	case err != nil:
		h.internalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":    "Product added successfully",
			"newProduct": product,
		})
	}
}

// updateStock handles absolute stock set
func (h *Handler) updateStock(c *gin.Context) {
	idStr := c.Query("id")
	quantityStr := c.Query("quantity")

	if idStr == "" || quantityStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing id or quantity in the request query parameters",
		})
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity parameter"})
		return
	}

	product, err := h.catalog.SetStock(c.Request.Context(), id, quantity)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        "Stock updated successfully",
		"updatedProduct": product,
	})
}

// deleteProduct handles product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Product deleted successfully"})
}

// placeOrder handles setting the delivery address on an order, looked up by
// the product it references
func (h *Handler) placeOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return
	}
	address := c.Query("address")

	order, err := h.orders.PlaceOrderDetails(c.Request.Context(), id, address)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      "Order updated successfully",
		"updatedOrder": order,
	})
}

// orderStatus handles order status lookup
func (h *Handler) orderStatus(c *gin.Context) {
	orderID := c.Query("orderid")

	status, err := h.orders.GetStatus(c.Request.Context(), orderID)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// cancelOrder handles order cancellation
func (h *Handler) cancelOrder(c *gin.Context) {
	cancelID := c.Query("cancelid")

	err := h.orders.Cancel(c.Request.Context(), cancelID)
	switch {
	case errors.Is(err, service.ErrDanglingReference):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case err != nil:
		h.internalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"success": "Order canceled successfully"})
	}
}

// productError maps lookup failures on product routes to a response.
func (h *Handler) productError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	h.internalError(c, err)
}

// orderError maps lookup failures on order routes to a response.
func (h *Handler) orderError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	h.internalError(c, err)
}

// internalError logs the backend failure and returns a generic payload so
// backend-specific detail never leaks to clients.
func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
