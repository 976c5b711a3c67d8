package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ProviderNameSpocket is the registry name of the Spocket adapter.
const ProviderNameSpocket = "spocket"

// SpocketAdapter implements the ProviderAdapter port for the Spocket
// marketplace API.
type SpocketAdapter struct {
	config     *SpocketConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewSpocketAdapter creates a Spocket adapter with the given configuration.
func NewSpocketAdapter(config *SpocketConfig, logger *zap.Logger) (*SpocketAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpocketAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), int(config.RequestsPerSecond)+1),
		logger:  logger.Named(ProviderNameSpocket),
	}, nil
}

// Name returns the registry name of this adapter.
func (a *SpocketAdapter) Name() string {
	return ProviderNameSpocket
}

// Enabled reports whether the adapter is switched on.
func (a *SpocketAdapter) Enabled() bool {
	return a.config.Enabled
}

// Initialize verifies the configured credentials.
func (a *SpocketAdapter) Initialize(ctx context.Context) error {
	_, err := a.doRequest(ctx, http.MethodGet, "/account", nil, nil)
	return err
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// SearchProducts searches the Spocket catalog with page-based listing.
func (a *SpocketAdapter) SearchProducts(ctx context.Context, query dropship.SearchQuery) ([]*dropship.Product, error) {
	query.Normalize()

	params := url.Values{}
	if query.Keyword != "" {
		params.Set("query", query.Keyword)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.MinPrice != nil {
		params.Set("min_price", query.MinPrice.String())
	}
	if query.MaxPrice != nil {
		params.Set("max_price", query.MaxPrice.String())
	}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("per_page", strconv.Itoa(query.PageSize))

	env, err := a.doRequest(ctx, http.MethodGet, "/products", params, nil)
	if err != nil {
		return nil, err
	}

	var items []spocketProduct
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse product list", err)
	}

	products := make([]*dropship.Product, 0, len(items))
	for i := range items {
		products = append(products, a.convertProduct(&items[i]))
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (a *SpocketAdapter) GetProduct(ctx context.Context, productID string) (*dropship.Product, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, nil)
	if err != nil {
		return nil, err
	}

	var item spocketProduct
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse product", err)
	}
	return a.convertProduct(&item), nil
}

// ImportProduct fetches a product for local materialization.
func (a *SpocketAdapter) ImportProduct(ctx context.Context, productID string) (*dropship.ImportResult, error) {
	product, err := a.GetProduct(ctx, productID)
	if err != nil {
		if pe, ok := dropship.AsProviderError(err); ok && pe.Kind == dropship.ErrorKindNotFound {
			return &dropship.ImportResult{
				Success: false,
				Code:    pe.Code,
				Message: fmt.Sprintf("product %s not found on spocket", productID),
			}, nil
		}
		return nil, err
	}

	return &dropship.ImportResult{
		Success: true,
		Product: product,
		Message: "imported from spocket",
	}, nil
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// SyncInventory fetches stock snapshots through Spocket's batch endpoint.
// Spocket omits ids it does not know and makes no ordering promise, so the
// response is re-aligned to the request: one entry per requested id, in
// request order, with gaps filled as unavailable.
func (a *SpocketAdapter) SyncInventory(ctx context.Context, productIDs []string) ([]dropship.InventoryUpdate, error) {
	payload := spocketInventoryRequest{ProductIDs: productIDs}

	env, err := a.doRequest(ctx, http.MethodPost, "/inventory/batch", nil, payload)
	if err != nil {
		return nil, err
	}

	var entries []spocketInventoryEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse inventory", err)
	}

	byID := make(map[string]spocketInventoryEntry, len(entries))
	for _, e := range entries {
		byID[e.ProductID] = e
	}

	now := time.Now()
	updates := make([]dropship.InventoryUpdate, len(productIDs))
	for i, id := range productIDs {
		updates[i] = dropship.InventoryUpdate{
			ProductID: id,
			CheckedAt: now,
		}
		if e, ok := byID[id]; ok {
			updates[i].Available = true
			updates[i].VariantID = e.VariantID
			updates[i].Stock = e.Stock
			updates[i].Price = parseDecimal(e.Price)
		}
	}
	return updates, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// CreateOrder places an order. The request is validated locally before any
// network call.
func (a *SpocketAdapter) CreateOrder(ctx context.Context, req dropship.OrderRequest) (*dropship.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := spocketOrderRequest{
		ShippingAddress: spocketAddress{
			FirstName: req.Address.FirstName,
			LastName:  req.Address.LastName,
			Address1:  req.Address.Address1,
			Address2:  req.Address.Address2,
			City:      req.Address.City,
			Province:  req.Address.State,
			Country:   req.Address.Country,
			Zip:       req.Address.PostalCode,
		},
		Customer: spocketCustomer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		LineItems: make([]spocketLineItem, 0, len(req.Items)),
		Note:      req.Note,
	}
	for _, item := range req.Items {
		payload.LineItems = append(payload.LineItems, spocketLineItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice.StringFixed(2),
		})
	}

	env, err := a.doRequest(ctx, http.MethodPost, "/orders", nil, payload)
	if err != nil {
		return nil, err
	}

	var order spocketOrder
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse order", err)
	}

	return &dropship.OrderResult{
		Success:         true,
		ProviderOrderID: order.ID,
		TrackingNumber:  order.TrackingNumber,
		TotalCost:       parseDecimal(order.Total),
		Currency:        order.Currency,
		Message:         "order created",
	}, nil
}

// GetOrderStatus fetches and maps the current order status.
func (a *SpocketAdapter) GetOrderStatus(ctx context.Context, providerOrderID string) (*dropship.OrderStatus, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(providerOrderID), nil, nil)
	if err != nil {
		return nil, err
	}

	var order spocketOrder
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse order status", err)
	}

	status := &dropship.OrderStatus{
		OrderID:        providerOrderID,
		Provider:       ProviderNameSpocket,
		State:          spocketStatusTable.Lookup(order.Status),
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    order.TrackingURL,
	}
	if order.EstimatedDelivery != "" {
		if t, err := time.Parse(time.RFC3339, order.EstimatedDelivery); err == nil {
			status.EstimatedDelivery = &t
		}
	}
	for _, e := range order.Events {
		update := dropship.StatusUpdate{
			State:   spocketStatusTable.Lookup(e.Status),
			Message: e.Message,
		}
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			update.At = t
		}
		status.AppendUpdate(update)
	}
	return status, nil
}

// CancelOrder requests cancellation. A provider that cannot cancel reports
// false without an error.
func (a *SpocketAdapter) CancelOrder(ctx context.Context, providerOrderID string) (bool, error) {
	env, err := a.doRequest(ctx, http.MethodPost, "/orders/"+url.PathEscape(providerOrderID)+"/cancel", nil, nil)
	if err != nil {
		return false, err
	}

	var result spocketCancelResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return false, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse cancel result", err)
	}
	return result.Cancelled, nil
}

// ---------------------------------------------------------------------------
// Shipping Operations
// ---------------------------------------------------------------------------

// GetShippingInfo fetches shipping options for a product.
func (a *SpocketAdapter) GetShippingInfo(ctx context.Context, productID string) (*dropship.ShippingInfo, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(productID)+"/shipping", nil, nil)
	if err != nil {
		return nil, err
	}

	var info spocketShippingInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "failed to parse shipping info", err)
	}

	result := &dropship.ShippingInfo{
		ProductID: productID,
		Provider:  ProviderNameSpocket,
		Methods:   make([]dropship.ShippingMethod, 0, len(info.Methods)),
		ProcessingTime: dropship.ShippingTimeRange{
			MinDays: info.ProcessingMinDays,
			MaxDays: info.ProcessingMaxDays,
		},
		SupportedCountries: info.ShipsTo,
	}
	for _, m := range info.Methods {
		result.Methods = append(result.Methods, convertSpocketShippingMethod(m))
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a rate-limited HTTP request against the Spocket API and
// classifies failures into the domain taxonomy.
func (a *SpocketAdapter) doRequest(ctx context.Context, method, path string, params url.Values, body any) (*spocketEnvelope, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "CTX", "request aborted", err)
	}

	endpoint := a.config.APIBaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("spocket: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("spocket: failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", a.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "NET", "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, dropship.NewTransientError(ProviderNameSpocket, "READ", "failed to read response", err)
	}

	var env spocketEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return nil, dropship.NewTransientError(ProviderNameSpocket, "PARSE", "malformed response envelope", err)
		}
	}

	if err := a.classify(resp, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// classify maps an HTTP response onto the failure taxonomy.
func (a *SpocketAdapter) classify(resp *http.Response, env *spocketEnvelope) error {
	code := strconv.Itoa(resp.StatusCode)
	message := "request rejected"
	detail := ""
	if env.Error != nil {
		message = env.Error.Message
		detail = env.Error.Code
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return dropship.NewRateLimitedError(ProviderNameSpocket, code, message, retryAfterFromHeader(resp.Header))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return dropship.NewUnauthorizedError(ProviderNameSpocket, code, message)
	case resp.StatusCode == http.StatusNotFound:
		return dropship.NewNotFoundError(ProviderNameSpocket, code, message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return dropship.NewOrderCreationError(ProviderNameSpocket, code, message, detail)
	case resp.StatusCode >= 500:
		return dropship.NewTransientError(ProviderNameSpocket, code, message, nil)
	case env.Error != nil:
		return dropship.NewTransientError(ProviderNameSpocket, code, message, nil)
	}
	return nil
}

// convertProduct maps a Spocket catalog payload onto the canonical model.
// Spocket reports no supplier rating, so RatingKnown stays false.
func (a *SpocketAdapter) convertProduct(item *spocketProduct) *dropship.Product {
	product := &dropship.Product{
		ID:          item.ID,
		Provider:    ProviderNameSpocket,
		Title:       item.Title,
		Description: item.Description,
		Images:      item.ImageURLs,
		Price:       parseDecimal(item.Price),
		Currency:    item.Currency,
		Category:    item.CategoryName,
		Tags:        item.Tags,
	}

	for _, v := range item.Variants {
		variant := dropship.ProductVariant{
			ID:      v.ID,
			SKU:     v.SKU,
			Options: v.Options,
			Stock:   v.Stock,
		}
		if v.Price != "" {
			price := parseDecimal(v.Price)
			variant.Price = &price
		}
		product.Variants = append(product.Variants, variant)
	}

	if item.Supplier != nil {
		product.Supplier = dropship.Supplier{
			Name:    item.Supplier.Name,
			Country: item.Supplier.OriginCountry,
			ShippingTime: dropship.ShippingTimeRange{
				MinDays: item.Supplier.ShippingMinDays,
				MaxDays: item.Supplier.ShippingMaxDays,
			},
		}
	}

	for _, m := range item.Shipping {
		product.ShippingMethods = append(product.ShippingMethods, convertSpocketShippingMethod(m))
	}
	return product
}

func convertSpocketShippingMethod(m spocketShippingMethod) dropship.ShippingMethod {
	return dropship.ShippingMethod{
		ID:       m.ID,
		Name:     m.Name,
		Cost:     parseDecimal(m.Cost),
		Currency: m.Currency,
		DeliveryTime: dropship.ShippingTimeRange{
			MinDays: m.MinDelivery,
			MaxDays: m.MaxDelivery,
		},
	}
}

// Ensure SpocketAdapter implements the ProviderAdapter port
var _ dropship.ProviderAdapter = (*SpocketAdapter)(nil)
