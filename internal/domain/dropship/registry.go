package dropship

import (
	"fmt"
	"sync"
)

// ---------------------------------------------------------------------------
// Provider Registry
// ---------------------------------------------------------------------------

// Registry holds the configured provider adapters and tracks the default
// provider. It is safe for concurrent use.
//
// The first enabled adapter to register becomes the default. The default
// never changes implicitly afterward; disabling the default adapter later
// does not promote another one.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]ProviderAdapter
	order    []string
	def      string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]ProviderAdapter),
	}
}

// Register adds an adapter under its Name(). Registering a name twice
// replaces the previous adapter but keeps its registration order. The first
// enabled adapter registered becomes the default.
func (r *Registry) Register(adapter ProviderAdapter) error {
	if adapter == nil {
		return fmt.Errorf("dropship: cannot register nil adapter")
	}
	name := adapter.Name()
	if name == "" {
		return fmt.Errorf("dropship: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; !exists {
		r.order = append(r.order, name)
	}
	r.adapters[name] = adapter

	if r.def == "" && adapter.Enabled() {
		r.def = name
	}
	return nil
}

// SetDefault explicitly changes the default provider. The named adapter must
// be registered and enabled.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adapter, ok := r.adapters[name]
	if !ok {
		return NewConfigurationError(name, "provider not registered")
	}
	if !adapter.Enabled() {
		return NewConfigurationError(name, "provider disabled")
	}
	r.def = name
	return nil
}

// DefaultName returns the current default provider name, empty if none.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Resolve returns the adapter for the given name. An empty name resolves to
// the stored default, even if that adapter has been disabled since it was
// chosen; a non-empty name additionally requires the adapter to be enabled.
func (r *Registry) Resolve(name string) (ProviderAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		if r.def == "" {
			return nil, NewConfigurationError("", "no provider registered")
		}
		return r.adapters[r.def], nil
	}

	adapter, ok := r.adapters[name]
	if !ok {
		return nil, NewConfigurationError(name, "provider not registered")
	}
	if !adapter.Enabled() {
		return nil, NewConfigurationError(name, "provider disabled")
	}
	return adapter, nil
}

// Get returns the adapter for the given name regardless of its enabled flag.
func (r *Registry) Get(name string) (ProviderAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[name]
	return adapter, ok
}

// ListEnabled returns the enabled adapters in registration order.
func (r *Registry) ListEnabled() []ProviderAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ProviderAdapter, 0, len(r.order))
	for _, name := range r.order {
		if adapter := r.adapters[name]; adapter.Enabled() {
			result = append(result, adapter)
		}
	}
	return result
}

// Names returns all registered provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
