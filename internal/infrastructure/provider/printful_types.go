package provider

import (
	"encoding/json"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Response Envelope
// ---------------------------------------------------------------------------

// printfulEnvelope is the common Printful response wrapper. Every endpoint
// returns {"code": <http status>, "result": ..., "error": {...}}.
type printfulEnvelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Error  *printfulError  `json:"error"`
	Paging *printfulPaging `json:"paging"`
}

// printfulError is the error payload inside a failed envelope.
type printfulError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
	// RetryAfter is the wait hint in seconds, set on rate-limit rejections.
	RetryAfter int `json:"retry_after"`
}

// printfulPaging carries offset pagination metadata.
type printfulPaging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// IsSuccess returns true when the envelope carries a successful result.
func (e *printfulEnvelope) IsSuccess() bool {
	return e.Error == nil && e.Code >= 200 && e.Code < 300
}

// ---------------------------------------------------------------------------
// Catalog Payloads
// ---------------------------------------------------------------------------

// printfulProduct is a catalog product as returned by the products endpoints.
// Printful serializes prices as strings.
type printfulProduct struct {
	ID           int64                    `json:"id"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	ThumbnailURL string                   `json:"thumbnail_url"`
	Images       []string                 `json:"images"`
	RetailPrice  string                   `json:"retail_price"`
	Currency     string                   `json:"currency"`
	Category     string                   `json:"category"`
	Tags         []string                 `json:"tags"`
	Variants     []printfulVariant        `json:"variants"`
	Supplier     *printfulSupplier        `json:"supplier"`
	Shipping     []printfulShippingMethod `json:"shipping_options"`
	Specs        map[string]string        `json:"specs"`
}

// printfulVariant is one product variant.
type printfulVariant struct {
	ID          int64             `json:"id"`
	SKU         string            `json:"sku"`
	RetailPrice string            `json:"retail_price"`
	InStock     *int              `json:"in_stock"`
	Options     map[string]string `json:"options"`
}

// printfulSupplier describes the fulfilling facility.
type printfulSupplier struct {
	Name            string `json:"name"`
	CountryCode     string `json:"country_code"`
	Rating          string `json:"rating"`
	ShippingMinDays int    `json:"shipping_min_days"`
	ShippingMaxDays int    `json:"shipping_max_days"`
}

// printfulShippingMethod is one shipping option with a price.
type printfulShippingMethod struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays int    `json:"min_delivery_days"`
	MaxDeliveryDays int    `json:"max_delivery_days"`
}

// printfulShippingInfo is the result of the shipping rates endpoint.
type printfulShippingInfo struct {
	ProductID         int64                    `json:"product_id"`
	Methods           []printfulShippingMethod `json:"methods"`
	ProcessingMinDays int                      `json:"processing_min_days"`
	ProcessingMaxDays int                      `json:"processing_max_days"`
	Countries         []string                 `json:"supported_countries"`
}

// printfulStock is a per-product stock snapshot.
type printfulStock struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	Stock       int    `json:"stock"`
	RetailPrice string `json:"retail_price"`
	Currency    string `json:"currency"`
}

// ---------------------------------------------------------------------------
// Order Payloads
// ---------------------------------------------------------------------------

// printfulOrderRequest is the order creation payload.
type printfulOrderRequest struct {
	Recipient printfulRecipient   `json:"recipient"`
	Items     []printfulOrderItem `json:"items"`
	Note      string              `json:"note,omitempty"`
}

// printfulRecipient is the shipping destination.
type printfulRecipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// printfulOrderItem is one order line item.
type printfulOrderItem struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	Quantity    int    `json:"quantity"`
	RetailPrice string `json:"retail_price"`
}

// printfulOrder is the order payload returned by order endpoints.
type printfulOrder struct {
	ID                int64                  `json:"id"`
	Status            string                 `json:"status"`
	TrackingNumber    string                 `json:"tracking_number"`
	TrackingURL       string                 `json:"tracking_url"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	Total             string                 `json:"total"`
	Currency          string                 `json:"currency"`
	History           []printfulOrderHistory `json:"history"`
}

// printfulOrderHistory is one entry of an order's status history.
type printfulOrderHistory struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	// Time is a unix timestamp.
	Time int64 `json:"time"`
}

// printfulCancelResult is the result of an order cancellation.
type printfulCancelResult struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Cancelled bool   `json:"cancelled"`
}

// ---------------------------------------------------------------------------
// Status Vocabulary
// ---------------------------------------------------------------------------

// printfulStatusTable maps Printful's native order statuses onto the
// canonical lifecycle. Unknown statuses default to pending.
var printfulStatusTable = dropship.StatusTable{
	"draft":     dropship.OrderStatePending,
	"pending":   dropship.OrderStatePending,
	"onhold":    dropship.OrderStatePending,
	"inprocess": dropship.OrderStateProcessing,
	"partial":   dropship.OrderStateProcessing,
	"fulfilled": dropship.OrderStateShipped,
	"shipped":   dropship.OrderStateShipped,
	"delivered": dropship.OrderStateDelivered,
	"canceled":  dropship.OrderStateCancelled,
	"failed":    dropship.OrderStateCancelled,
}
