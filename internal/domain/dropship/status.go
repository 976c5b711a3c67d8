package dropship

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Lifecycle States
// ---------------------------------------------------------------------------

// OrderState is one of the five canonical order lifecycle states.
type OrderState string

const (
	// OrderStatePending indicates the order was created but not yet picked up.
	OrderStatePending OrderState = "pending"
	// OrderStateProcessing indicates the provider is preparing the order.
	OrderStateProcessing OrderState = "processing"
	// OrderStateShipped indicates the order has been shipped.
	OrderStateShipped OrderState = "shipped"
	// OrderStateDelivered indicates the order has been delivered.
	OrderStateDelivered OrderState = "delivered"
	// OrderStateCancelled indicates the order was cancelled.
	OrderStateCancelled OrderState = "cancelled"
)

// IsValid returns true if the state is one of the five canonical states.
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStatePending, OrderStateProcessing, OrderStateShipped,
		OrderStateDelivered, OrderStateCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderState.
func (s OrderState) String() string {
	return string(s)
}

// IsTerminal returns true for states from which no further transition is
// expected.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCancelled
}

// orderTransitions lists the legal forward transitions of the state machine.
// Cancellation is reachable from pending or processing only.
var orderTransitions = map[OrderState][]OrderState{
	OrderStatePending:    {OrderStateProcessing, OrderStateShipped, OrderStateCancelled},
	OrderStateProcessing: {OrderStateShipped, OrderStateCancelled},
	OrderStateShipped:    {OrderStateDelivered},
	OrderStateDelivered:  {},
	OrderStateCancelled:  {},
}

// CanTransitionTo returns true if moving from s to next is a legal transition.
// Staying in the same state is always legal (idempotent polling).
func (s OrderState) CanTransitionTo(next OrderState) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Order Status Snapshot
// ---------------------------------------------------------------------------

// StatusUpdate is one timestamped entry in an order's status history.
type StatusUpdate struct {
	// State is the canonical state at the time of the update.
	State OrderState
	// Message is the provider's native status description.
	Message string
	// At is when the update occurred on the provider.
	At time.Time
}

// OrderStatus is the canonical state snapshot of one provider order.
// It is only ever mutated by re-fetching from the provider; the platform
// never advances this state locally.
type OrderStatus struct {
	// OrderID is the provider-assigned order id.
	OrderID string
	// Provider is the provider tracking the order.
	Provider string
	// State is the current canonical state.
	State OrderState
	// TrackingNumber is the shipment tracking number, when assigned.
	TrackingNumber string
	// TrackingURL is the carrier tracking page, when known.
	TrackingURL string
	// EstimatedDelivery is the provider's delivery estimate, when given.
	EstimatedDelivery *time.Time
	// Updates is the append-only status history, oldest first.
	Updates []StatusUpdate
}

// AppendUpdate appends an update, preserving oldest-first ordering.
func (s *OrderStatus) AppendUpdate(u StatusUpdate) {
	s.Updates = append(s.Updates, u)
}

// LatestUpdate returns the most recent update, or nil if the history is empty.
func (s *OrderStatus) LatestUpdate() *StatusUpdate {
	if len(s.Updates) == 0 {
		return nil
	}
	return &s.Updates[len(s.Updates)-1]
}

// ---------------------------------------------------------------------------
// Status Vocabulary Mapping
// ---------------------------------------------------------------------------

// StatusTable maps a provider's native status vocabulary onto the canonical
// states. Adding a provider means adding one table, not new branching logic.
type StatusTable map[string]OrderState

// Lookup maps a native status string to its canonical state. Unknown native
// statuses map to pending, the conservative default.
func (t StatusTable) Lookup(native string) OrderState {
	if state, ok := t[native]; ok {
		return state
	}
	return OrderStatePending
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// InventoryUpdate is a per-product (optionally per-variant) stock and price
// snapshot produced by batch inventory sync. It is short-lived: the core
// hands it to the platform's persistence collaborator and keeps nothing.
type InventoryUpdate struct {
	// ProductID is the product identifier on the provider.
	ProductID string
	// VariantID is the variant identifier, optional.
	VariantID string
	// Stock is the available stock count.
	Stock int
	// Price is the current price.
	Price decimal.Decimal
	// Available indicates whether the provider could resolve the id.
	// An id unknown to the provider yields Available=false and Stock=0.
	Available bool
	// CheckedAt is when the snapshot was taken.
	CheckedAt time.Time
}
