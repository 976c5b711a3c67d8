package provider

import (
	"encoding/json"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Response Envelope
// ---------------------------------------------------------------------------

// spocketEnvelope is the common Spocket response wrapper. Successful
// responses carry the payload under "data"; failures carry "error".
type spocketEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *spocketError   `json:"error"`
	Meta  *spocketMeta    `json:"meta"`
}

// spocketError is the error payload of a failed response.
type spocketError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// spocketMeta carries page-based pagination metadata.
type spocketMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// ---------------------------------------------------------------------------
// Catalog Payloads
// ---------------------------------------------------------------------------

// spocketProduct is a catalog product. Spocket uses string ids throughout
// and serializes prices as strings. Supplier payloads carry no rating.
type spocketProduct struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	ImageURLs    []string                `json:"image_urls"`
	Price        string                  `json:"price"`
	Currency     string                  `json:"currency"`
	CategoryName string                  `json:"category_name"`
	Tags         []string                `json:"tags"`
	Variants     []spocketVariant        `json:"variants"`
	Supplier     *spocketSupplier        `json:"supplier"`
	Shipping     []spocketShippingMethod `json:"shipping_methods"`
}

// spocketVariant is one product variant.
type spocketVariant struct {
	ID      string            `json:"id"`
	SKU     string            `json:"sku"`
	Price   string            `json:"price"`
	Stock   *int              `json:"inventory_quantity"`
	Options map[string]string `json:"options"`
}

// spocketSupplier describes the fulfilling supplier.
type spocketSupplier struct {
	Name            string `json:"name"`
	OriginCountry   string `json:"origin_country"`
	ShippingMinDays int    `json:"shipping_time_min"`
	ShippingMaxDays int    `json:"shipping_time_max"`
}

// spocketShippingMethod is one shipping option.
type spocketShippingMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        string `json:"cost"`
	Currency    string `json:"currency"`
	MinDelivery int    `json:"delivery_min_days"`
	MaxDelivery int    `json:"delivery_max_days"`
}

// spocketShippingInfo is the shipping detail payload for one product.
type spocketShippingInfo struct {
	ProductID         string                  `json:"product_id"`
	Methods           []spocketShippingMethod `json:"methods"`
	ProcessingMinDays int                     `json:"processing_time_min"`
	ProcessingMaxDays int                     `json:"processing_time_max"`
	ShipsTo           []string                `json:"ships_to"`
}

// ---------------------------------------------------------------------------
// Inventory Payloads
// ---------------------------------------------------------------------------

// spocketInventoryRequest is the batch inventory lookup payload.
type spocketInventoryRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// spocketInventoryEntry is one entry of the batch inventory response.
// Spocket omits ids it does not know and makes no ordering promise.
type spocketInventoryEntry struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Stock     int    `json:"stock"`
	Price     string `json:"price"`
}

// ---------------------------------------------------------------------------
// Order Payloads
// ---------------------------------------------------------------------------

// spocketOrderRequest is the order creation payload.
type spocketOrderRequest struct {
	ShippingAddress spocketAddress     `json:"shipping_address"`
	LineItems       []spocketLineItem  `json:"line_items"`
	Customer        spocketCustomer    `json:"customer"`
	Note            string             `json:"note,omitempty"`
}

// spocketAddress is the shipping destination.
type spocketAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
}

// spocketCustomer is the customer contact block.
type spocketCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// spocketLineItem is one order line item.
type spocketLineItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// spocketOrder is the order payload returned by order endpoints.
type spocketOrder struct {
	ID                string                 `json:"id"`
	Status            string                 `json:"status"`
	TrackingNumber    string                 `json:"tracking_number"`
	TrackingURL       string                 `json:"tracking_url"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	Total             string                 `json:"total"`
	Currency          string                 `json:"currency"`
	Events            []spocketOrderEvent    `json:"events"`
}

// spocketOrderEvent is one entry of an order's status history.
type spocketOrderEvent struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// spocketCancelResult is the result of an order cancellation.
type spocketCancelResult struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Cancelled bool   `json:"cancelled"`
}

// ---------------------------------------------------------------------------
// Status Vocabulary
// ---------------------------------------------------------------------------

// spocketStatusTable maps Spocket's native order statuses onto the canonical
// lifecycle. Unknown statuses default to pending.
var spocketStatusTable = dropship.StatusTable{
	"unpaid":     dropship.OrderStatePending,
	"paid":       dropship.OrderStatePending,
	"ordered":    dropship.OrderStateProcessing,
	"processing": dropship.OrderStateProcessing,
	"shipped":    dropship.OrderStateShipped,
	"in_transit": dropship.OrderStateShipped,
	"delivered":  dropship.OrderStateDelivered,
	"cancelled":  dropship.OrderStateCancelled,
	"refunded":   dropship.OrderStateCancelled,
}
