package dropship

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Product Value Objects
// ---------------------------------------------------------------------------

// Product is a provider-scoped catalog item in the canonical model.
// It is owned by the adapter that fetched it; callers receive copies and a
// Product is never mutated after being returned.
type Product struct {
	// ID is the product identifier on the provider.
	ID string
	// Provider is the name of the provider that owns this product.
	Provider string
	// Title is the product title.
	Title string
	// Description is the product description.
	Description string
	// Images contains product image URLs.
	Images []string
	// Price is the base selling price.
	Price decimal.Decimal
	// Currency is the ISO 4217 currency code for Price.
	Currency string
	// Category is the provider's category label.
	Category string
	// Tags contains free-form tags.
	Tags []string
	// Variants contains the product's variants, if any.
	Variants []ProductVariant
	// Supplier describes the fulfilling supplier.
	Supplier Supplier
	// ShippingMethods contains the shipping options known for this product.
	ShippingMethods []ShippingMethod
	// Specs is a free-form specification map (material, weight, ...).
	Specs map[string]string
}

// Clone returns a deep copy of the product. Adapters return clones so callers
// never share adapter-owned state.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Tags = append([]string(nil), p.Tags...)
	cp.ShippingMethods = append([]ShippingMethod(nil), p.ShippingMethods...)
	if p.Variants != nil {
		cp.Variants = make([]ProductVariant, len(p.Variants))
		for i, v := range p.Variants {
			cp.Variants[i] = v.clone()
		}
	}
	if p.Specs != nil {
		cp.Specs = make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			cp.Specs[k] = v
		}
	}
	return &cp
}

// Variant returns the variant with the given id, or nil if absent.
func (p *Product) Variant(variantID string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// EffectivePrice returns the price for the given variant id. A variant price,
// when present, overrides the parent product's price.
func (p *Product) EffectivePrice(variantID string) decimal.Decimal {
	if v := p.Variant(variantID); v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// ProductVariant is a sub-identity of a Product (e.g. size/colour).
// Variant price and stock, when present, override the parent product's values.
type ProductVariant struct {
	// ID is the variant identifier on the provider.
	ID string
	// Options maps option names to values (e.g. "size" -> "XL").
	Options map[string]string
	// Price overrides the parent product price when non-nil.
	Price *decimal.Decimal
	// Stock overrides the parent product stock when non-nil.
	Stock *int
	// SKU is the variant SKU code.
	SKU string
}

func (v ProductVariant) clone() ProductVariant {
	cp := v
	if v.Options != nil {
		cp.Options = make(map[string]string, len(v.Options))
		for k, val := range v.Options {
			cp.Options[k] = val
		}
	}
	if v.Price != nil {
		price := *v.Price
		cp.Price = &price
	}
	if v.Stock != nil {
		stock := *v.Stock
		cp.Stock = &stock
	}
	return cp
}

// Supplier describes the supplier fulfilling a product.
type Supplier struct {
	// Name is the supplier's display name.
	Name string
	// Country is the supplier's origin country code.
	Country string
	// Rating is the supplier rating reported by the provider.
	// Only meaningful when RatingKnown is true; a provider that reports no
	// rating yields RatingKnown=false rather than a fabricated placeholder.
	Rating decimal.Decimal
	// RatingKnown indicates whether the provider reported a rating.
	RatingKnown bool
	// ShippingTime is the supplier's typical shipping time range.
	ShippingTime ShippingTimeRange
}

// ShippingTimeRange is an inclusive range of days.
type ShippingTimeRange struct {
	MinDays int
	MaxDays int
}

// ShippingMethod is one shipping option with cost and delivery time range.
type ShippingMethod struct {
	// ID is the method identifier on the provider.
	ID string
	// Name is the method's display name.
	Name string
	// Cost is the shipping cost.
	Cost decimal.Decimal
	// Currency is the ISO 4217 currency code for Cost.
	Currency string
	// DeliveryTime is the estimated delivery time range.
	DeliveryTime ShippingTimeRange
}

// ShippingInfo describes shipping options for a product.
type ShippingInfo struct {
	// ProductID is the product these options apply to.
	ProductID string
	// Provider is the provider that reported the options.
	Provider string
	// Methods contains the available shipping methods.
	Methods []ShippingMethod
	// ProcessingTime is the time the provider needs before shipment.
	ProcessingTime ShippingTimeRange
	// SupportedCountries lists destination country codes, empty meaning all.
	SupportedCountries []string
}

// ---------------------------------------------------------------------------
// Search Query
// ---------------------------------------------------------------------------

// SortField selects the field product search results are ordered by.
type SortField string

const (
	SortFieldRelevance SortField = "relevance"
	SortFieldPrice     SortField = "price"
	SortFieldTitle     SortField = "title"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SearchQuery describes a product search. All fields are optional.
type SearchQuery struct {
	// Keyword is a free-text search term.
	Keyword string
	// Category filters by provider category label.
	Category string
	// MinPrice filters out cheaper products when non-nil.
	MinPrice *decimal.Decimal
	// MaxPrice filters out more expensive products when non-nil.
	MaxPrice *decimal.Decimal
	// SortBy selects the sort field.
	SortBy SortField
	// SortDir selects the sort direction.
	SortDir SortDirection
	// Page is the 1-indexed page number.
	Page int
	// PageSize is the number of products per page.
	PageSize int
}

// Normalize applies defaults and bounds to pagination and sorting.
func (q *SearchQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.SortBy == "" {
		q.SortBy = SortFieldRelevance
	}
	if q.SortDir == "" {
		q.SortDir = SortAsc
	}
}

// Matches reports whether a product satisfies the query's price bounds.
func (q *SearchQuery) Matches(p *Product) bool {
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	return true
}
