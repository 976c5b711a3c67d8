package dropship

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Tracker Configuration
// ---------------------------------------------------------------------------

// TrackerConfig configures the order tracker.
type TrackerConfig struct {
	// PollInterval is the base interval between status polls for an active
	// order.
	PollInterval time.Duration

	// MaxPollInterval caps the tapered interval once an order reaches a
	// terminal state.
	MaxPollInterval time.Duration

	// MaxTracked bounds the in-memory tracking table.
	MaxTracked int

	// Workers is the number of concurrent polling workers.
	Workers int
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		PollInterval:    time.Minute,
		MaxPollInterval: time.Hour,
		MaxTracked:      1000,
		Workers:         4,
	}
}

// Validate fills missing fields with defaults.
func (c *TrackerConfig) Validate() error {
	def := DefaultTrackerConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.MaxPollInterval < c.PollInterval {
		c.MaxPollInterval = def.MaxPollInterval
	}
	if c.MaxTracked <= 0 {
		c.MaxTracked = def.MaxTracked
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tracked Order
// ---------------------------------------------------------------------------

// trackedOrder is one entry of the tracking table.
type trackedOrder struct {
	orderID  string
	provider string

	status     *dropship.OrderStatus
	interval   time.Duration
	nextPollAt time.Time
	lastErr    error
}

// TrackedOrder is the externally visible view of a tracking table entry.
type TrackedOrder struct {
	OrderID    string
	Provider   string
	Status     *dropship.OrderStatus
	NextPollAt time.Time
}

// ---------------------------------------------------------------------------
// Tracker
// ---------------------------------------------------------------------------

// Tracker polls the provider for order status updates at a tapering interval
// and keeps a bounded in-memory table of the latest observed state. The
// provider's answer is always the canonical state; the tracker never infers
// a transition on its own, it only observes and records.
type Tracker struct {
	config  TrackerConfig
	service *Service
	logger  *zap.Logger

	mu        sync.RWMutex
	orders    map[string]*trackedOrder
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	jobs      chan string
}

// NewTracker creates an order tracker backed by the given service.
func NewTracker(service *Service, config TrackerConfig, logger *zap.Logger) *Tracker {
	_ = config.Validate()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		config:  config,
		service: service,
		logger:  logger.Named("order-tracker"),
		orders:  make(map[string]*trackedOrder),
	}
}

// Track adds an order to the tracking table. Tracking the same order twice
// is a no-op; a full table rejects the new order.
func (t *Tracker) Track(orderID, providerName string) error {
	if orderID == "" {
		return dropship.NewConfigurationError(providerName, "order id required")
	}
	if providerName == "" {
		return dropship.NewConfigurationError("", "provider name required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.orders[orderID]; exists {
		return nil
	}
	if len(t.orders) >= t.config.MaxTracked {
		return dropship.NewConfigurationError(providerName, "tracking table full")
	}

	t.orders[orderID] = &trackedOrder{
		orderID:    orderID,
		provider:   providerName,
		interval:   t.config.PollInterval,
		nextPollAt: time.Now(),
	}
	t.logger.Info("tracking order",
		zap.String("order_id", orderID),
		zap.String("provider", providerName),
	)
	return nil
}

// Untrack removes an order from the tracking table.
func (t *Tracker) Untrack(orderID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.orders, orderID)
}

// Status returns the last observed status of a tracked order. The second
// return reports whether the order is tracked at all; a tracked order that
// has not been polled yet returns (nil, true).
func (t *Tracker) Status(orderID string) (*dropship.OrderStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.orders[orderID]
	if !ok {
		return nil, false
	}
	return entry.status, true
}

// List returns a snapshot of the tracking table.
func (t *Tracker) List() []TrackedOrder {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]TrackedOrder, 0, len(t.orders))
	for _, entry := range t.orders {
		out = append(out, TrackedOrder{
			OrderID:    entry.orderID,
			Provider:   entry.provider,
			Status:     entry.status,
			NextPollAt: entry.nextPollAt,
		})
	}
	return out
}

// Refresh polls the provider for one order immediately and records the
// observed status. It is also the unit of work executed by the polling
// workers.
func (t *Tracker) Refresh(ctx context.Context, orderID string) (*dropship.OrderStatus, error) {
	t.mu.RLock()
	entry, ok := t.orders[orderID]
	t.mu.RUnlock()
	if !ok {
		return nil, dropship.NewConfigurationError("", "order not tracked")
	}

	status, err := t.service.GetOrderStatus(ctx, entry.orderID, entry.provider)

	t.mu.Lock()
	defer t.mu.Unlock()

	// The entry may have been untracked while the poll was in flight.
	entry, ok = t.orders[orderID]
	if !ok {
		return status, err
	}

	if err != nil {
		entry.lastErr = err
		entry.nextPollAt = time.Now().Add(entry.interval)
		t.logger.Warn("order status poll failed",
			zap.String("order_id", orderID),
			zap.String("provider", entry.provider),
			zap.String("kind", dropship.KindOf(err).String()),
			zap.Error(err),
		)
		return nil, err
	}

	t.record(entry, status)
	return status, nil
}

// record merges a freshly observed status into the table entry and adjusts
// the polling cadence. Caller holds t.mu.
func (t *Tracker) record(entry *trackedOrder, status *dropship.OrderStatus) {
	entry.lastErr = nil

	if entry.status != nil && entry.status.State != status.State {
		if !entry.status.State.CanTransitionTo(status.State) {
			// Provider truth wins; record the jump, just do not pretend it
			// was an expected path.
			t.logger.Warn("unexpected order state transition",
				zap.String("order_id", entry.orderID),
				zap.String("provider", entry.provider),
				zap.String("from", entry.status.State.String()),
				zap.String("to", status.State.String()),
			)
		}
		t.logger.Info("order state changed",
			zap.String("order_id", entry.orderID),
			zap.String("provider", entry.provider),
			zap.String("from", entry.status.State.String()),
			zap.String("to", status.State.String()),
		)
	}

	// Keep the update history append-only even when the provider returns a
	// shorter history than previously seen.
	if entry.status != nil && len(status.Updates) < len(entry.status.Updates) {
		status.Updates = append(entry.status.Updates, diffUpdates(entry.status.Updates, status.Updates)...)
	}
	entry.status = status

	if status.State.IsTerminal() {
		// Terminal orders taper off instead of being dropped, so late
		// corrections from the provider are still picked up.
		entry.interval *= 2
		if entry.interval > t.config.MaxPollInterval {
			entry.interval = t.config.MaxPollInterval
		}
	} else {
		entry.interval = t.config.PollInterval
	}
	entry.nextPollAt = time.Now().Add(entry.interval)
}

// diffUpdates returns the entries of fresh that are not already present in
// known, compared by state and timestamp.
func diffUpdates(known, fresh []dropship.StatusUpdate) []dropship.StatusUpdate {
	seen := make(map[string]struct{}, len(known))
	for _, u := range known {
		seen[u.State.String()+"|"+u.At.UTC().Format(time.RFC3339)] = struct{}{}
	}
	var out []dropship.StatusUpdate
	for _, u := range fresh {
		if _, ok := seen[u.State.String()+"|"+u.At.UTC().Format(time.RFC3339)]; !ok {
			out = append(out, u)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Start launches the polling workers and the scan loop. Calling Start on a
// running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = true
	ctx, t.cancel = context.WithCancel(ctx)
	t.jobs = make(chan string, t.config.MaxTracked)
	t.mu.Unlock()

	for i := 0; i < t.config.Workers; i++ {
		t.wg.Add(1)
		go t.worker(ctx)
	}

	t.wg.Add(1)
	go t.scanLoop(ctx)

	t.logger.Info("order tracker started",
		zap.Int("workers", t.config.Workers),
		zap.Duration("poll_interval", t.config.PollInterval),
	)
}

// Stop cancels the workers and waits for them to drain.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	t.wg.Wait()
	t.logger.Info("order tracker stopped")
}

// scanLoop periodically enqueues every order whose next poll is due.
func (t *Tracker) scanLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.scanInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.enqueueDue()
		}
	}
}

// scanInterval keeps the scan cadence well under the poll interval so due
// orders are picked up promptly without busy-looping.
func (t *Tracker) scanInterval() time.Duration {
	interval := t.config.PollInterval / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return interval
}

func (t *Tracker) enqueueDue() {
	now := time.Now()

	t.mu.Lock()
	var due []string
	for id, entry := range t.orders {
		if !entry.nextPollAt.After(now) {
			due = append(due, id)
			// Push the next poll out so a slow worker does not cause the
			// same order to be enqueued twice.
			entry.nextPollAt = now.Add(entry.interval)
		}
	}
	t.mu.Unlock()

	for _, id := range due {
		select {
		case t.jobs <- id:
		default:
			t.logger.Warn("poll queue full, skipping cycle", zap.String("order_id", id))
		}
	}
}

func (t *Tracker) worker(ctx context.Context) {
	defer t.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case orderID := <-t.jobs:
			_, _ = t.Refresh(ctx, orderID)
		}
	}
}
