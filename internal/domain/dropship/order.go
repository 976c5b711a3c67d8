package dropship

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Value Objects
// ---------------------------------------------------------------------------

// ShippingAddress is the destination record for an order.
type ShippingAddress struct {
	FirstName  string
	LastName   string
	Address1   string
	Address2   string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Validate checks the address invariants for order creation.
// Country and postal code must be present; adapters reject otherwise.
func (a *ShippingAddress) Validate() error {
	if a.Country == "" {
		return ErrAddressMissingCountry
	}
	if a.PostalCode == "" {
		return ErrAddressMissingPostalCode
	}
	return nil
}

// CustomerInfo is the customer contact information attached to an order.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// OrderItem is one line item of an order request.
type OrderItem struct {
	// ProductID is the product identifier on the target provider.
	ProductID string
	// VariantID is the variant identifier, optional.
	VariantID string
	// Quantity is the ordered quantity, must be greater than zero.
	Quantity int
	// UnitPrice is the unit price, must not be negative.
	UnitPrice decimal.Decimal
}

// OrderRequest is the input to order creation.
type OrderRequest struct {
	// Items contains the line items; at least one is required.
	Items []OrderItem
	// Address is the shipping destination.
	Address ShippingAddress
	// Customer is the customer contact information.
	Customer CustomerInfo
	// Note is an optional free-text note for the provider.
	Note string
}

// Validate checks all order-request invariants. Violated inputs are rejected
// before any network call is made.
func (r *OrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrOrderNoItems
	}
	for _, item := range r.Items {
		if item.ProductID == "" {
			return ErrOrderMissingProduct
		}
		if item.Quantity <= 0 {
			return ErrOrderInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return ErrOrderInvalidPrice
		}
	}
	return r.Address.Validate()
}

// Total returns the sum of quantity * unit price over all line items.
func (r *OrderRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderResult is the outcome of one order-creation attempt. It is created
// once per attempt and never mutated afterward; a retry produces a new
// OrderResult.
type OrderResult struct {
	// Success indicates whether the provider accepted the order.
	Success bool
	// ProviderOrderID is the provider-assigned order id.
	ProviderOrderID string
	// TrackingNumber is the tracking number, when already assigned.
	TrackingNumber string
	// TotalCost is the total cost charged by the provider.
	TotalCost decimal.Decimal
	// Currency is the ISO 4217 currency code for TotalCost.
	Currency string
	// Message is a human-readable result description.
	Message string
}

// ImportResult is the outcome of materializing a provider catalog item into
// the platform's own catalog. Import failures are expected during batch
// imports, so a failed import is a result, not an error.
type ImportResult struct {
	// Success indicates whether the import succeeded.
	Success bool
	// LocalID is the platform-local identifier assigned to the imported
	// product, set only on success.
	LocalID string
	// Product is the fetched provider product, set only on success.
	Product *Product
	// Code is the provider's failure code, set only on failure.
	Code string
	// Message describes the outcome.
	Message string
}
