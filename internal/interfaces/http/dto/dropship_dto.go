package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// SearchProductsRequest holds product search query parameters.
type SearchProductsRequest struct {
	Provider string `form:"provider"`
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=relevance price title"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToQuery converts the request to a domain search query.
func (r *SearchProductsRequest) ToQuery() dropship.SearchQuery {
	q := dropship.SearchQuery{
		Keyword:  r.Keyword,
		Category: r.Category,
		SortBy:   dropship.SortField(r.SortBy),
		SortDir:  dropship.SortDirection(r.SortDir),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.MinPrice != "" {
		if minPrice, err := decimal.NewFromString(r.MinPrice); err == nil {
			q.MinPrice = &minPrice
		}
	}
	if r.MaxPrice != "" {
		if maxPrice, err := decimal.NewFromString(r.MaxPrice); err == nil {
			q.MaxPrice = &maxPrice
		}
	}
	q.Normalize()
	return q
}

// OrderItemRequest is one line item of an order creation request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

// ShippingAddressRequest is the destination of an order creation request.
type ShippingAddressRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address1   string `json:"address1" binding:"required"`
	Address2   string `json:"address2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required,len=2"`
}

// CustomerInfoRequest is the customer contact block of an order request.
type CustomerInfoRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// CreateOrderRequest is the payload of POST /orders.
type CreateOrderRequest struct {
	Provider string                 `json:"provider"`
	Items    []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	Address  ShippingAddressRequest `json:"address" binding:"required"`
	Customer CustomerInfoRequest    `json:"customer" binding:"required"`
	Note     string                 `json:"note"`
	Track    bool                   `json:"track"`
}

// ToDomain converts the request to a domain order request.
func (r *CreateOrderRequest) ToDomain() dropship.OrderRequest {
	items := make([]dropship.OrderItem, len(r.Items))
	for i, item := range r.Items {
		price, _ := decimal.NewFromString(item.UnitPrice)
		items[i] = dropship.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		}
	}
	return dropship.OrderRequest{
		Items: items,
		Address: dropship.ShippingAddress{
			FirstName:  r.Address.FirstName,
			LastName:   r.Address.LastName,
			Address1:   r.Address.Address1,
			Address2:   r.Address.Address2,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
		Customer: dropship.CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Note: r.Note,
	}
}

// SyncInventoryRequest is the payload of POST /inventory/sync.
type SyncInventoryRequest struct {
	Provider   string   `json:"provider" binding:"required"`
	ProductIDs []string `json:"product_ids" binding:"required,min=1,max=200"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ProductResponse is the API view of a product.
type ProductResponse struct {
	ID              string                   `json:"id"`
	Provider        string                   `json:"provider"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description,omitempty"`
	Images          []string                 `json:"images,omitempty"`
	Price           string                   `json:"price"`
	Currency        string                   `json:"currency"`
	Category        string                   `json:"category,omitempty"`
	Tags            []string                 `json:"tags,omitempty"`
	Variants        []ProductVariantResponse `json:"variants,omitempty"`
	Supplier        *SupplierResponse        `json:"supplier,omitempty"`
	ShippingMethods []ShippingMethodResponse `json:"shipping_methods,omitempty"`
}

// ProductVariantResponse is the API view of a product variant.
type ProductVariantResponse struct {
	ID      string            `json:"id"`
	Options map[string]string `json:"options,omitempty"`
	Price   *string           `json:"price,omitempty"`
	Stock   *int              `json:"stock,omitempty"`
	SKU     string            `json:"sku,omitempty"`
}

// SupplierResponse is the API view of a supplier.
type SupplierResponse struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	Rating  *string `json:"rating,omitempty"`
}

// ShippingMethodResponse is the API view of a shipping method.
type ShippingMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     string `json:"cost"`
	Currency string `json:"currency"`
	MinDays  int    `json:"min_days"`
	MaxDays  int    `json:"max_days"`
}

// FromProduct converts a domain product to its API view.
func FromProduct(p *dropship.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Provider:    p.Provider,
		Title:       p.Title,
		Description: p.Description,
		Images:      p.Images,
		Price:       p.Price.String(),
		Currency:    p.Currency,
		Category:    p.Category,
		Tags:        p.Tags,
	}
	for _, v := range p.Variants {
		vr := ProductVariantResponse{
			ID:      v.ID,
			Options: v.Options,
			Stock:   v.Stock,
			SKU:     v.SKU,
		}
		if v.Price != nil {
			price := v.Price.String()
			vr.Price = &price
		}
		resp.Variants = append(resp.Variants, vr)
	}
	if p.Supplier.Name != "" || p.Supplier.RatingKnown {
		supplier := &SupplierResponse{
			Name:    p.Supplier.Name,
			Country: p.Supplier.Country,
		}
		// Rating is omitted entirely when the provider reported none.
		if p.Supplier.RatingKnown {
			rating := p.Supplier.Rating.String()
			supplier.Rating = &rating
		}
		resp.Supplier = supplier
	}
	for _, m := range p.ShippingMethods {
		resp.ShippingMethods = append(resp.ShippingMethods, fromShippingMethod(m))
	}
	return resp
}

// FromProducts converts a slice of domain products to API views.
func FromProducts(products []*dropship.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromProduct(p)
	}
	return out
}

func fromShippingMethod(m dropship.ShippingMethod) ShippingMethodResponse {
	return ShippingMethodResponse{
		ID:       m.ID,
		Name:     m.Name,
		Cost:     m.Cost.String(),
		Currency: m.Currency,
		MinDays:  m.DeliveryTime.MinDays,
		MaxDays:  m.DeliveryTime.MaxDays,
	}
}

// ShippingInfoResponse is the API view of product shipping options.
type ShippingInfoResponse struct {
	ProductID          string                   `json:"product_id"`
	Provider           string                   `json:"provider"`
	Methods            []ShippingMethodResponse `json:"methods"`
	ProcessingMinDays  int                      `json:"processing_min_days"`
	ProcessingMaxDays  int                      `json:"processing_max_days"`
	SupportedCountries []string                 `json:"supported_countries,omitempty"`
}

// FromShippingInfo converts domain shipping info to its API view.
func FromShippingInfo(info *dropship.ShippingInfo) ShippingInfoResponse {
	resp := ShippingInfoResponse{
		ProductID:          info.ProductID,
		Provider:           info.Provider,
		Methods:            make([]ShippingMethodResponse, 0, len(info.Methods)),
		ProcessingMinDays:  info.ProcessingTime.MinDays,
		ProcessingMaxDays:  info.ProcessingTime.MaxDays,
		SupportedCountries: info.SupportedCountries,
	}
	for _, m := range info.Methods {
		resp.Methods = append(resp.Methods, fromShippingMethod(m))
	}
	return resp
}

// ImportResultResponse is the API view of an import outcome.
type ImportResultResponse struct {
	Success  bool             `json:"success"`
	LocalID  string           `json:"local_id,omitempty"`
	Product  *ProductResponse `json:"product,omitempty"`
	Code     string           `json:"code,omitempty"`
	Message  string           `json:"message,omitempty"`
	Provider string           `json:"provider"`
}

// FromImportResult converts a domain import result to its API view.
func FromImportResult(r *dropship.ImportResult, provider string) ImportResultResponse {
	resp := ImportResultResponse{
		Success:  r.Success,
		LocalID:  r.LocalID,
		Code:     r.Code,
		Message:  r.Message,
		Provider: provider,
	}
	if r.Product != nil {
		product := FromProduct(r.Product)
		resp.Product = &product
	}
	return resp
}

// OrderResultResponse is the API view of an order creation outcome.
type OrderResultResponse struct {
	Success         bool   `json:"success"`
	ProviderOrderID string `json:"provider_order_id"`
	TrackingNumber  string `json:"tracking_number,omitempty"`
	TotalCost       string `json:"total_cost"`
	Currency        string `json:"currency"`
	Message         string `json:"message,omitempty"`
	Tracked         bool   `json:"tracked"`
}

// FromOrderResult converts a domain order result to its API view.
func FromOrderResult(r *dropship.OrderResult, tracked bool) OrderResultResponse {
	return OrderResultResponse{
		Success:         r.Success,
		ProviderOrderID: r.ProviderOrderID,
		TrackingNumber:  r.TrackingNumber,
		TotalCost:       r.TotalCost.String(),
		Currency:        r.Currency,
		Message:         r.Message,
		Tracked:         tracked,
	}
}

// StatusUpdateResponse is one entry of an order's status history.
type StatusUpdateResponse struct {
	State   string    `json:"state"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// OrderStatusResponse is the API view of an order's canonical status.
type OrderStatusResponse struct {
	OrderID           string                 `json:"order_id"`
	Provider          string                 `json:"provider"`
	State             string                 `json:"state"`
	TrackingNumber    string                 `json:"tracking_number,omitempty"`
	TrackingURL       string                 `json:"tracking_url,omitempty"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery,omitempty"`
	Updates           []StatusUpdateResponse `json:"updates,omitempty"`
}

// FromOrderStatus converts a domain order status to its API view.
func FromOrderStatus(s *dropship.OrderStatus) OrderStatusResponse {
	resp := OrderStatusResponse{
		OrderID:           s.OrderID,
		Provider:          s.Provider,
		State:             s.State.String(),
		TrackingNumber:    s.TrackingNumber,
		TrackingURL:       s.TrackingURL,
		EstimatedDelivery: s.EstimatedDelivery,
	}
	for _, u := range s.Updates {
		resp.Updates = append(resp.Updates, StatusUpdateResponse{
			State:   u.State.String(),
			Message: u.Message,
			At:      u.At,
		})
	}
	return resp
}

// CancelOrderResponse is the API view of a cancellation outcome.
type CancelOrderResponse struct {
	OrderID   string `json:"order_id"`
	Provider  string `json:"provider"`
	Cancelled bool   `json:"cancelled"`
}

// InventoryUpdateResponse is the API view of one inventory snapshot.
type InventoryUpdateResponse struct {
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Stock     int       `json:"stock"`
	Price     string    `json:"price"`
	Available bool      `json:"available"`
	CheckedAt time.Time `json:"checked_at"`
}

// FromInventoryUpdates converts domain inventory updates to API views.
func FromInventoryUpdates(updates []dropship.InventoryUpdate) []InventoryUpdateResponse {
	out := make([]InventoryUpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = InventoryUpdateResponse{
			ProductID: u.ProductID,
			VariantID: u.VariantID,
			Stock:     u.Stock,
			Price:     u.Price.String(),
			Available: u.Available,
			CheckedAt: u.CheckedAt,
		}
	}
	return out
}
