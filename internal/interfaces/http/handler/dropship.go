package handler

import (
	"github.com/gin-gonic/gin"

	appdropship "github.com/dropship/backend/internal/application/dropship"
	"github.com/dropship/backend/internal/interfaces/http/dto"
)

// DropshipHandler serves the provider-facing API: product search and import,
// order creation and tracking, inventory sync, and provider health.
type DropshipHandler struct {
	BaseHandler
	service *appdropship.Service
	tracker *appdropship.Tracker
}

// NewDropshipHandler creates a new DropshipHandler. The tracker is optional;
// without one the tracking endpoints respond 404.
func NewDropshipHandler(service *appdropship.Service, tracker *appdropship.Tracker) *DropshipHandler {
	return &DropshipHandler{service: service, tracker: tracker}
}

// RegisterRoutes registers all dropshipping routes
func (h *DropshipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	providers := rg.Group("/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/health", h.ProviderHealth)
	}

	products := rg.Group("/products")
	{
		products.GET("", h.SearchProducts)
		products.GET("/:provider/:id", h.GetProduct)
		products.GET("/:provider/:id/shipping", h.GetShippingInfo)
		products.POST("/:provider/:id/import", h.ImportProduct)
	}

	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:provider/:id", h.GetOrderStatus)
		orders.POST("/:provider/:id/cancel", h.CancelOrder)
	}

	tracking := rg.Group("/tracking")
	{
		tracking.GET("", h.ListTracked)
		tracking.POST("", h.TrackOrder)
		tracking.GET("/:id", h.TrackedStatus)
		tracking.DELETE("/:id", h.UntrackOrder)
	}

	rg.POST("/inventory/sync", h.SyncInventory)
}

// ---------------------------------------------------------------------------
// Providers
// ---------------------------------------------------------------------------

// ListProviders returns the enabled provider names.
// GET /api/v1/providers
func (h *DropshipHandler) ListProviders(c *gin.Context) {
	h.Success(c, gin.H{"providers": h.service.GetEnabledProviders()})
}

// ProviderHealth probes every registered provider.
// GET /api/v1/providers/health
func (h *DropshipHandler) ProviderHealth(c *gin.Context) {
	h.Success(c, gin.H{"providers": h.service.HealthCheck(c.Request.Context())})
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// SearchProducts searches for products. Without a provider parameter the
// search fans out to every enabled provider.
// GET /api/v1/products?provider=&keyword=&min_price=&max_price=&page=
func (h *DropshipHandler) SearchProducts(c *gin.Context) {
	var req dto.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	query := req.ToQuery()
	products, err := h.service.GetAvailableProducts(c.Request.Context(), query, req.Provider)
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.FromProducts(products), query.Page, query.PageSize, len(products))
}

// GetProduct fetches one product from a provider.
// GET /api/v1/products/:provider/:id
func (h *DropshipHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"), c.Param("provider"))
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, dto.FromProduct(product))
}

// GetShippingInfo fetches shipping options for a product.
// GET /api/v1/products/:provider/:id/shipping
func (h *DropshipHandler) GetShippingInfo(c *gin.Context) {
	info, err := h.service.GetShippingInfo(c.Request.Context(), c.Param("id"), c.Param("provider"))
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, dto.FromShippingInfo(info))
}

// ImportProduct imports a provider product into the local catalog. A product
// the provider cannot serve yields success=false in the body, not an error
// status, so batch imports can keep going.
// POST /api/v1/products/:provider/:id/import
func (h *DropshipHandler) ImportProduct(c *gin.Context) {
	provider := c.Param("provider")
	result, err := h.service.ImportProduct(c.Request.Context(), c.Param("id"), provider)
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, dto.FromImportResult(result, provider))
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateOrder places an order with a provider. With track=true the order is
// also added to the tracker.
// POST /api/v1/orders
func (h *DropshipHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.service.CreateOrder(c.Request.Context(), req.ToDomain(), req.Provider)
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}

	tracked := false
	if req.Track && h.tracker != nil && result.Success {
		provider := req.Provider
		if provider == "" {
			provider = h.service.DefaultProvider()
		}
		if trackErr := h.tracker.Track(result.ProviderOrderID, provider); trackErr == nil {
			tracked = true
		}
	}

	h.Created(c, dto.FromOrderResult(result, tracked))
}

// GetOrderStatus fetches the canonical status of an order from its provider.
// GET /api/v1/orders/:provider/:id
func (h *DropshipHandler) GetOrderStatus(c *gin.Context) {
	status, err := h.service.GetOrderStatus(c.Request.Context(), c.Param("id"), c.Param("provider"))
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, dto.FromOrderStatus(status))
}

// CancelOrder requests cancellation of an order. A provider that declines
// reports cancelled=false with a 200.
// POST /api/v1/orders/:provider/:id/cancel
func (h *DropshipHandler) CancelOrder(c *gin.Context) {
	provider := c.Param("provider")
	orderID := c.Param("id")

	cancelled, err := h.service.CancelOrder(c.Request.Context(), orderID, provider)
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, dto.CancelOrderResponse{
		OrderID:   orderID,
		Provider:  provider,
		Cancelled: cancelled,
	})
}

// ---------------------------------------------------------------------------
// Tracking
// ---------------------------------------------------------------------------

type trackOrderRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

// ListTracked returns the tracking table snapshot.
// GET /api/v1/tracking
func (h *DropshipHandler) ListTracked(c *gin.Context) {
	if h.tracker == nil {
		h.NotFound(c, "order tracking is not enabled")
		return
	}

	entries := h.tracker.List()
	out := make([]gin.H, len(entries))
	for i, entry := range entries {
		item := gin.H{
			"order_id": entry.OrderID,
			"provider": entry.Provider,
		}
		if entry.Status != nil {
			status := dto.FromOrderStatus(entry.Status)
			item["status"] = status
		}
		out[i] = item
	}
	h.Success(c, gin.H{"orders": out})
}

// TrackOrder adds an order to the tracker.
// POST /api/v1/tracking
func (h *DropshipHandler) TrackOrder(c *gin.Context) {
	if h.tracker == nil {
		h.NotFound(c, "order tracking is not enabled")
		return
	}

	var req trackOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	if err := h.tracker.Track(req.OrderID, req.Provider); err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Created(c, gin.H{"order_id": req.OrderID, "provider": req.Provider})
}

// TrackedStatus returns the last observed status of a tracked order without
// hitting the provider.
// GET /api/v1/tracking/:id
func (h *DropshipHandler) TrackedStatus(c *gin.Context) {
	if h.tracker == nil {
		h.NotFound(c, "order tracking is not enabled")
		return
	}

	status, tracked := h.tracker.Status(c.Param("id"))
	if !tracked {
		h.NotFound(c, "order is not tracked")
		return
	}
	if status == nil {
		h.Success(c, gin.H{"order_id": c.Param("id"), "polled": false})
		return
	}
	h.Success(c, dto.FromOrderStatus(status))
}

// UntrackOrder removes an order from the tracker.
// DELETE /api/v1/tracking/:id
func (h *DropshipHandler) UntrackOrder(c *gin.Context) {
	if h.tracker == nil {
		h.NotFound(c, "order tracking is not enabled")
		return
	}
	h.tracker.Untrack(c.Param("id"))
	c.Status(204)
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// SyncInventory fetches stock snapshots for the given products and records
// them. One entry is returned per requested id, in request order.
// POST /api/v1/inventory/sync
func (h *DropshipHandler) SyncInventory(c *gin.Context) {
	var req dto.SyncInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	updates, err := h.service.SyncInventory(c.Request.Context(), req.ProductIDs, req.Provider)
	if err != nil {
		h.HandleProviderError(c, err)
		return
	}
	h.Success(c, gin.H{
		"provider": req.Provider,
		"updates":  dto.FromInventoryUpdates(updates),
	})
}
