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
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ProviderNamePrintful is the registry name of the Printful adapter.
const ProviderNamePrintful = "printful"

// PrintfulAdapter implements the ProviderAdapter port for the Printful
// fulfillment API.
type PrintfulAdapter struct {
	config     *PrintfulConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewPrintfulAdapter creates a Printful adapter with the given configuration.
func NewPrintfulAdapter(config *PrintfulConfig, logger *zap.Logger) (*PrintfulAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintfulAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), int(config.RequestsPerSecond)+1),
		logger:  logger.Named(ProviderNamePrintful),
	}, nil
}

// Name returns the registry name of this adapter.
func (a *PrintfulAdapter) Name() string {
	return ProviderNamePrintful
}

// Enabled reports whether the adapter is switched on.
func (a *PrintfulAdapter) Enabled() bool {
	return a.config.Enabled
}

// Initialize verifies the configured credentials against the store endpoint.
func (a *PrintfulAdapter) Initialize(ctx context.Context) error {
	_, err := a.doRequest(ctx, http.MethodGet, "/store", nil, nil)
	return err
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// SearchProducts searches the Printful catalog. Price bounds are applied
// client-side; Printful's search endpoint only supports keyword and category.
func (a *PrintfulAdapter) SearchProducts(ctx context.Context, query dropship.SearchQuery) ([]*dropship.Product, error) {
	query.Normalize()

	params := url.Values{}
	if query.Keyword != "" {
		params.Set("search", query.Keyword)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	params.Set("limit", strconv.Itoa(query.PageSize))
	params.Set("offset", strconv.Itoa((query.Page-1)*query.PageSize))

	env, err := a.doRequest(ctx, http.MethodGet, "/products", params, nil)
	if err != nil {
		return nil, err
	}

	var items []printfulProduct
	if err := json.Unmarshal(env.Result, &items); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse product list", err)
	}

	products := make([]*dropship.Product, 0, len(items))
	for i := range items {
		product := a.convertProduct(&items[i])
		if query.Matches(product) {
			products = append(products, product)
		}
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (a *PrintfulAdapter) GetProduct(ctx context.Context, productID string) (*dropship.Product, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, nil)
	if err != nil {
		return nil, err
	}

	var item printfulProduct
	if err := json.Unmarshal(env.Result, &item); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse product", err)
	}
	return a.convertProduct(&item), nil
}

// ImportProduct fetches a product for local materialization. A product
// Printful cannot serve yields a failed result, not an error.
func (a *PrintfulAdapter) ImportProduct(ctx context.Context, productID string) (*dropship.ImportResult, error) {
	product, err := a.GetProduct(ctx, productID)
	if err != nil {
		if pe, ok := dropship.AsProviderError(err); ok && pe.Kind == dropship.ErrorKindNotFound {
			return &dropship.ImportResult{
				Success: false,
				Code:    pe.Code,
				Message: fmt.Sprintf("product %s not found on printful", productID),
			}, nil
		}
		return nil, err
	}

	return &dropship.ImportResult{
		Success: true,
		Product: product,
		Message: "imported from printful",
	}, nil
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// SyncInventory fetches stock snapshots for the given product ids. Printful
// has no batch endpoint, so ids are fetched concurrently under the configured
// concurrency bound. The result keeps request order, one entry per id.
func (a *PrintfulAdapter) SyncInventory(ctx context.Context, productIDs []string) ([]dropship.InventoryUpdate, error) {
	updates := make([]dropship.InventoryUpdate, len(productIDs))
	sem := make(chan struct{}, a.config.MaxConcurrency)
	var wg sync.WaitGroup

	for i, id := range productIDs {
		wg.Add(1)
		go func(idx int, productID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			updates[idx] = a.fetchStock(ctx, productID)
		}(i, id)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "CTX", "inventory sync aborted", err)
	}
	return updates, nil
}

// fetchStock fetches one product's stock snapshot. Failures degrade to an
// unavailable entry so one bad id cannot fail the whole batch.
func (a *PrintfulAdapter) fetchStock(ctx context.Context, productID string) dropship.InventoryUpdate {
	update := dropship.InventoryUpdate{
		ProductID: productID,
		CheckedAt: time.Now(),
	}

	env, err := a.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(productID)+"/stock", nil, nil)
	if err != nil {
		a.logger.Warn("stock fetch failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return update
	}

	var stock printfulStock
	if err := json.Unmarshal(env.Result, &stock); err != nil {
		a.logger.Warn("stock payload malformed", zap.String("product_id", productID), zap.Error(err))
		return update
	}

	update.Available = true
	update.Stock = stock.Stock
	update.Price = parseDecimal(stock.RetailPrice)
	if stock.VariantID > 0 {
		update.VariantID = strconv.FormatInt(stock.VariantID, 10)
	}
	return update
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// CreateOrder places an order. The request is validated locally before any
// network call.
func (a *PrintfulAdapter) CreateOrder(ctx context.Context, req dropship.OrderRequest) (*dropship.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := printfulOrderRequest{
		Recipient: printfulRecipient{
			Name:        req.Address.FirstName + " " + req.Address.LastName,
			Address1:    req.Address.Address1,
			Address2:    req.Address.Address2,
			City:        req.Address.City,
			StateCode:   req.Address.State,
			CountryCode: req.Address.Country,
			Zip:         req.Address.PostalCode,
			Email:       req.Customer.Email,
			Phone:       req.Customer.Phone,
		},
		Items: make([]printfulOrderItem, 0, len(req.Items)),
		Note:  req.Note,
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, printfulOrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			RetailPrice: item.UnitPrice.StringFixed(2),
		})
	}

	env, err := a.doRequest(ctx, http.MethodPost, "/orders", nil, payload)
	if err != nil {
		return nil, err
	}

	var order printfulOrder
	if err := json.Unmarshal(env.Result, &order); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse order", err)
	}

	return &dropship.OrderResult{
		Success:         true,
		ProviderOrderID: strconv.FormatInt(order.ID, 10),
		TrackingNumber:  order.TrackingNumber,
		TotalCost:       parseDecimal(order.Total),
		Currency:        order.Currency,
		Message:         "order created",
	}, nil
}

// GetOrderStatus fetches and maps the current order status.
func (a *PrintfulAdapter) GetOrderStatus(ctx context.Context, providerOrderID string) (*dropship.OrderStatus, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(providerOrderID), nil, nil)
	if err != nil {
		return nil, err
	}

	var order printfulOrder
	if err := json.Unmarshal(env.Result, &order); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse order status", err)
	}

	status := &dropship.OrderStatus{
		OrderID:        providerOrderID,
		Provider:       ProviderNamePrintful,
		State:          printfulStatusTable.Lookup(order.Status),
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    order.TrackingURL,
	}
	if order.EstimatedDelivery != "" {
		if t, err := time.Parse(time.RFC3339, order.EstimatedDelivery); err == nil {
			status.EstimatedDelivery = &t
		}
	}
	for _, h := range order.History {
		status.AppendUpdate(dropship.StatusUpdate{
			State:   printfulStatusTable.Lookup(h.Status),
			Message: h.Message,
			At:      time.Unix(h.Time, 0),
		})
	}
	return status, nil
}

// CancelOrder requests cancellation. A provider that cannot cancel (already
// shipped) reports false without an error.
func (a *PrintfulAdapter) CancelOrder(ctx context.Context, providerOrderID string) (bool, error) {
	env, err := a.doRequest(ctx, http.MethodDelete, "/orders/"+url.PathEscape(providerOrderID), nil, nil)
	if err != nil {
		return false, err
	}

	var result printfulCancelResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return false, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse cancel result", err)
	}
	return result.Cancelled, nil
}

// ---------------------------------------------------------------------------
// Shipping Operations
// ---------------------------------------------------------------------------

// GetShippingInfo fetches shipping options for a product.
func (a *PrintfulAdapter) GetShippingInfo(ctx context.Context, productID string) (*dropship.ShippingInfo, error) {
	env, err := a.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(productID)+"/shipping", nil, nil)
	if err != nil {
		return nil, err
	}

	var info printfulShippingInfo
	if err := json.Unmarshal(env.Result, &info); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "failed to parse shipping info", err)
	}

	result := &dropship.ShippingInfo{
		ProductID: productID,
		Provider:  ProviderNamePrintful,
		Methods:   make([]dropship.ShippingMethod, 0, len(info.Methods)),
		ProcessingTime: dropship.ShippingTimeRange{
			MinDays: info.ProcessingMinDays,
			MaxDays: info.ProcessingMaxDays,
		},
		SupportedCountries: info.Countries,
	}
	for _, m := range info.Methods {
		result.Methods = append(result.Methods, convertPrintfulShippingMethod(m))
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a rate-limited HTTP request against the Printful API and
// classifies failures into the domain taxonomy.
func (a *PrintfulAdapter) doRequest(ctx context.Context, method, path string, params url.Values, body any) (*printfulEnvelope, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "CTX", "request aborted", err)
	}

	endpoint := a.config.APIBaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("printful: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("printful: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "NET", "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, dropship.NewTransientError(ProviderNamePrintful, "READ", "failed to read response", err)
	}

	var env printfulEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return nil, dropship.NewTransientError(ProviderNamePrintful, "PARSE", "malformed response envelope", err)
		}
	}

	if err := a.classify(resp, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// classify maps an HTTP response onto the failure taxonomy.
func (a *PrintfulAdapter) classify(resp *http.Response, env *printfulEnvelope) error {
	code := strconv.Itoa(resp.StatusCode)
	message := "request rejected"
	detail := ""
	if env.Error != nil {
		message = env.Error.Message
		detail = env.Error.Reason
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		hint := retryAfterFromHeader(resp.Header)
		if env.Error != nil && env.Error.RetryAfter > 0 {
			hint = time.Duration(env.Error.RetryAfter) * time.Second
		}
		return dropship.NewRateLimitedError(ProviderNamePrintful, code, message, hint)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return dropship.NewUnauthorizedError(ProviderNamePrintful, code, message)
	case resp.StatusCode == http.StatusNotFound:
		return dropship.NewNotFoundError(ProviderNamePrintful, code, message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return dropship.NewOrderCreationError(ProviderNamePrintful, code, message, detail)
	case resp.StatusCode >= 500:
		return dropship.NewTransientError(ProviderNamePrintful, code, message, nil)
	case !env.IsSuccess():
		return dropship.NewTransientError(ProviderNamePrintful, code, message, nil)
	}
	return nil
}

// convertProduct maps a Printful catalog payload onto the canonical model.
func (a *PrintfulAdapter) convertProduct(item *printfulProduct) *dropship.Product {
	product := &dropship.Product{
		ID:          strconv.FormatInt(item.ID, 10),
		Provider:    ProviderNamePrintful,
		Title:       item.Name,
		Description: item.Description,
		Images:      item.Images,
		Price:       parseDecimal(item.RetailPrice),
		Currency:    item.Currency,
		Category:    item.Category,
		Tags:        item.Tags,
		Specs:       item.Specs,
	}
	if len(product.Images) == 0 && item.ThumbnailURL != "" {
		product.Images = []string{item.ThumbnailURL}
	}

	for _, v := range item.Variants {
		variant := dropship.ProductVariant{
			ID:      strconv.FormatInt(v.ID, 10),
			SKU:     v.SKU,
			Options: v.Options,
			Stock:   v.InStock,
		}
		if v.RetailPrice != "" {
			price := parseDecimal(v.RetailPrice)
			variant.Price = &price
		}
		product.Variants = append(product.Variants, variant)
	}

	if item.Supplier != nil {
		product.Supplier = dropship.Supplier{
			Name:    item.Supplier.Name,
			Country: item.Supplier.CountryCode,
			ShippingTime: dropship.ShippingTimeRange{
				MinDays: item.Supplier.ShippingMinDays,
				MaxDays: item.Supplier.ShippingMaxDays,
			},
		}
		if item.Supplier.Rating != "" {
			if rating, err := decimal.NewFromString(item.Supplier.Rating); err == nil {
				product.Supplier.Rating = rating
				product.Supplier.RatingKnown = true
			}
		}
	}

	for _, m := range item.Shipping {
		product.ShippingMethods = append(product.ShippingMethods, convertPrintfulShippingMethod(m))
	}
	return product
}

func convertPrintfulShippingMethod(m printfulShippingMethod) dropship.ShippingMethod {
	return dropship.ShippingMethod{
		ID:       m.ID,
		Name:     m.Name,
		Cost:     parseDecimal(m.Rate),
		Currency: m.Currency,
		DeliveryTime: dropship.ShippingTimeRange{
			MinDays: m.MinDeliveryDays,
			MaxDays: m.MaxDeliveryDays,
		},
	}
}

// Ensure PrintfulAdapter implements the ProviderAdapter port
var _ dropship.ProviderAdapter = (*PrintfulAdapter)(nil)
