package dropship

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test Adapter
// ---------------------------------------------------------------------------

// stubAdapter is a minimal ProviderAdapter for registry tests.
type stubAdapter struct {
	name    string
	enabled bool
}

var _ ProviderAdapter = (*stubAdapter)(nil)

func (s *stubAdapter) Name() string    { return s.name }
func (s *stubAdapter) Enabled() bool   { return s.enabled }
func (s *stubAdapter) Initialize(ctx context.Context) error { return nil }
func (s *stubAdapter) SearchProducts(ctx context.Context, q SearchQuery) ([]*Product, error) {
	return nil, nil
}
func (s *stubAdapter) GetProduct(ctx context.Context, id string) (*Product, error) { return nil, nil }
func (s *stubAdapter) ImportProduct(ctx context.Context, id string) (*ImportResult, error) {
	return nil, nil
}
func (s *stubAdapter) SyncInventory(ctx context.Context, ids []string) ([]InventoryUpdate, error) {
	return nil, nil
}
func (s *stubAdapter) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	return nil, nil
}
func (s *stubAdapter) GetOrderStatus(ctx context.Context, id string) (*OrderStatus, error) {
	return nil, nil
}
func (s *stubAdapter) CancelOrder(ctx context.Context, id string) (bool, error) { return false, nil }
func (s *stubAdapter) GetShippingInfo(ctx context.Context, id string) (*ShippingInfo, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------
// Registry Tests
// ---------------------------------------------------------------------------

func TestRegistry_Register(t *testing.T) {
	t.Run("First enabled adapter becomes default", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: true}))
		require.NoError(t, reg.Register(&stubAdapter{name: "spocket", enabled: true}))

		assert.Equal(t, "printful", reg.DefaultName())
	})

	t.Run("Disabled adapter does not become default", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: false}))
		require.NoError(t, reg.Register(&stubAdapter{name: "spocket", enabled: true}))

		assert.Equal(t, "spocket", reg.DefaultName())
	})

	t.Run("Nil adapter rejected", func(t *testing.T) {
		reg := NewRegistry()
		assert.Error(t, reg.Register(nil))
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		reg := NewRegistry()
		assert.Error(t, reg.Register(&stubAdapter{name: "", enabled: true}))
	})
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("Empty name resolves to default", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: true}))

		adapter, err := reg.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "printful", adapter.Name())
	})

	t.Run("No providers registered", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Resolve("")
		require.Error(t, err)
		assert.True(t, IsKind(err, ErrorKindConfiguration))
	})

	t.Run("Unknown name", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: true}))

		_, err := reg.Resolve("aliexpress")
		require.Error(t, err)
		assert.True(t, IsKind(err, ErrorKindConfiguration))
	})

	t.Run("Disabled provider by name fails", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(&stubAdapter{name: "spocket", enabled: false}))

		_, err := reg.Resolve("spocket")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider disabled")
	})

	t.Run("Default stays resolvable after being disabled", func(t *testing.T) {
		reg := NewRegistry()
		adapter := &stubAdapter{name: "printful", enabled: true}
		require.NoError(t, reg.Register(adapter))

		adapter.enabled = false

		// The stored default is still returned for the empty name.
		resolved, err := reg.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "printful", resolved.Name())

		// But resolving it by name enforces the enabled flag.
		_, err = reg.Resolve("printful")
		assert.Error(t, err)
	})
}

func TestRegistry_SetDefault(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: true}))
	require.NoError(t, reg.Register(&stubAdapter{name: "spocket", enabled: true}))
	require.NoError(t, reg.Register(&stubAdapter{name: "dormant", enabled: false}))

	t.Run("Switch to enabled provider", func(t *testing.T) {
		require.NoError(t, reg.SetDefault("spocket"))
		assert.Equal(t, "spocket", reg.DefaultName())
	})

	t.Run("Cannot switch to disabled provider", func(t *testing.T) {
		assert.Error(t, reg.SetDefault("dormant"))
	})

	t.Run("Cannot switch to unknown provider", func(t *testing.T) {
		assert.Error(t, reg.SetDefault("missing"))
	})
}

func TestRegistry_ListEnabled(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubAdapter{name: "printful", enabled: true}))
	require.NoError(t, reg.Register(&stubAdapter{name: "dormant", enabled: false}))
	require.NoError(t, reg.Register(&stubAdapter{name: "spocket", enabled: true}))

	enabled := reg.ListEnabled()
	require.Len(t, enabled, 2)
	assert.Equal(t, "printful", enabled[0].Name())
	assert.Equal(t, "spocket", enabled[1].Name())
}
