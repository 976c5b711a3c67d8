package dropship

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// OrderRequest Tests
// ---------------------------------------------------------------------------

func validOrderRequest() OrderRequest {
	return OrderRequest{
		Items: []OrderItem{
			{ProductID: "prod-1", VariantID: "var-1", Quantity: 2, UnitPrice: decimal.NewFromFloat(19.99)},
		},
		Address: ShippingAddress{
			FirstName:  "Jane",
			LastName:   "Doe",
			Address1:   "1 Main St",
			City:       "Berlin",
			PostalCode: "10115",
			Country:    "DE",
		},
		Customer: CustomerInfo{Name: "Jane Doe", Email: "jane@example.com"},
	}
}

func TestOrderRequest_Validate(t *testing.T) {
	t.Run("Valid request", func(t *testing.T) {
		req := validOrderRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("No items", func(t *testing.T) {
		req := validOrderRequest()
		req.Items = nil
		assert.ErrorIs(t, req.Validate(), ErrOrderNoItems)
	})

	t.Run("Missing product id", func(t *testing.T) {
		req := validOrderRequest()
		req.Items[0].ProductID = ""
		assert.ErrorIs(t, req.Validate(), ErrOrderMissingProduct)
	})

	t.Run("Zero quantity", func(t *testing.T) {
		req := validOrderRequest()
		req.Items[0].Quantity = 0
		assert.ErrorIs(t, req.Validate(), ErrOrderInvalidQuantity)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		req := validOrderRequest()
		req.Items[0].Quantity = -1
		assert.ErrorIs(t, req.Validate(), ErrOrderInvalidQuantity)
	})

	t.Run("Negative unit price", func(t *testing.T) {
		req := validOrderRequest()
		req.Items[0].UnitPrice = decimal.NewFromFloat(-0.01)
		assert.ErrorIs(t, req.Validate(), ErrOrderInvalidPrice)
	})

	t.Run("Zero unit price is allowed", func(t *testing.T) {
		req := validOrderRequest()
		req.Items[0].UnitPrice = decimal.Zero
		assert.NoError(t, req.Validate())
	})

	t.Run("Missing country", func(t *testing.T) {
		req := validOrderRequest()
		req.Address.Country = ""
		assert.ErrorIs(t, req.Validate(), ErrAddressMissingCountry)
	})

	t.Run("Missing postal code", func(t *testing.T) {
		req := validOrderRequest()
		req.Address.PostalCode = ""
		assert.ErrorIs(t, req.Validate(), ErrAddressMissingPostalCode)
	})
}

func TestOrderRequest_Total(t *testing.T) {
	req := OrderRequest{
		Items: []OrderItem{
			{ProductID: "a", Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)},
			{ProductID: "b", Quantity: 1, UnitPrice: decimal.NewFromFloat(4.25)},
			{ProductID: "c", Quantity: 3, UnitPrice: decimal.NewFromFloat(0.99)},
		},
	}

	assert.True(t, req.Total().Equal(decimal.NewFromFloat(28.22)))
}

func TestOrderRequest_TotalEmpty(t *testing.T) {
	req := OrderRequest{}
	assert.True(t, req.Total().IsZero())
}
