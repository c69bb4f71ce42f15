package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"shop-service/internal/service"
	"shop-service/internal/storage/jsonstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := jsonstore.NewStore(
		filepath.Join(dir, "products.json"),
		filepath.Join(dir, "orders.json"),
	)
	require.NoError(t, err)

	catalog := service.NewCatalogService(store, nil)
	inventory := service.NewInventoryService(store, nil)
	orders := service.NewOrderService(store, inventory, nil, nil)

	router := gin.New()
	NewHandler(catalog, orders).SetupRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const widgetBody = `{"productId":1,"productName":"Widget","price":10,"stock":5,"imageUrl":"x"}`

func TestSearchRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/search?searchParam=WIDGET", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"productName":"Widget"`)

	w = doRequest(t, router, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/search?searchParam=gadget", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")

	w = doRequest(t, router, http.MethodGet, "/search_id?id=1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/search_id?id=notanumber", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddProductDuplicateConflict(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/product", widgetBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = doRequest(t, router, http.MethodPost, "/product", `{"productId":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutAndCancelFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPut, "/checkout?id=1&quantity=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var checkoutResp struct {
		Success        string `json:"success"`
		UpdatedProduct struct {
			Stock int `json:"stock"`
		} `json:"updatedProduct"`
		NewOrder struct {
			OrderID   string  `json:"O_ID"`
			Status    string  `json:"O_status"`
			TotalCost float64 `json:"O_totalcost"`
		} `json:"newOrder"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkoutResp))
	assert.Equal(t, "Stock and order updated successfully", checkoutResp.Success)
	assert.Equal(t, 3, checkoutResp.UpdatedProduct.Stock)
	assert.Equal(t, "Pending", checkoutResp.NewOrder.Status)
	assert.Equal(t, float64(20), checkoutResp.NewOrder.TotalCost)

	orderID := checkoutResp.NewOrder.OrderID
	require.NotEmpty(t, orderID)

	w = doRequest(t, router, http.MethodGet, "/status?orderid="+orderID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"Pending"`, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/order?id=1&address=somewhere", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"O_status":"pending"`)

	w = doRequest(t, router, http.MethodDelete, "/cancel?cancelid="+orderID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order canceled successfully")

	// Stock restored, order gone.
	w = doRequest(t, router, http.MethodGet, "/search_id?id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stock":5`)

	w = doRequest(t, router, http.MethodGet, "/status?orderid="+orderID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestCheckoutMissingParams(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPut, "/checkout?id=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing id or quantity")
}

func TestUpdateStockAbsolute(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPut, "/product?id=1&quantity=42", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stock":42`)

	w = doRequest(t, router, http.MethodPut, "/product?id=99&quantity=42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/product?id=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/product?id=1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/product?id=1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelDanglingProduct(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/product", widgetBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPut, "/checkout?id=1&quantity=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var checkoutResp struct {
		NewOrder struct {
			OrderID string `json:"O_ID"`
		} `json:"newOrder"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkoutResp))

	w = doRequest(t, router, http.MethodDelete, "/product?id=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/cancel?cancelid="+checkoutResp.NewOrder.OrderID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")

	// Order survives the failed cancel.
	w = doRequest(t, router, http.MethodGet, "/status?orderid="+checkoutResp.NewOrder.OrderID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
