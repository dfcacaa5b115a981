// Package lifecycle tracks snipe orders through their state machine:
// pending -> filled | cancelled | expired. Terminal states are never left.
package lifecycle

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// Manager owns the in-memory order collection. The timeout sweep and the
// fill detector run on independent cadences against the same collection, so
// every transition re-validates the live status under the lock instead of
// trusting a batch snapshot.
type Manager struct {
	mu     sync.Mutex
	orders map[string]*types.Order

	clock  types.Clock
	logger *slog.Logger
}

// NewManager creates an empty order manager.
func NewManager(clock types.Clock, logger *slog.Logger) *Manager {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		orders: make(map[string]*types.Order),
		clock:  clock,
		logger: logger,
	}
}

// NewOrder builds a pending snipe order for one ladder tier (or a single
// order with ladderIndex -1).
func NewOrder(m types.Market, side types.Side, limitPrice, currentPrice, discount, size decimal.Decimal, ladderIndex, resubmitCount int, now time.Time) types.Order {
	return types.Order{
		ID:                     uuid.New().String(),
		ClientOrderID:          clientOrderID(now),
		MarketID:               m.ID,
		MarketTitle:            m.Title,
		Side:                   side,
		LimitPrice:             limitPrice,
		CurrentPriceAtCreation: currentPrice,
		Discount:               discount,
		Size:                   size,
		Status:                 types.OrderStatusPending,
		CreatedAt:              now,
		LadderIndex:            ladderIndex,
		ResubmitCount:          resubmitCount,
	}
}

// Add registers a pending order.
func (m *Manager) Add(order types.Order) error {
	if order.Status != types.OrderStatusPending {
		return fmt.Errorf("order %s status %s: %w", order.ID, order.Status, types.ErrOrderFinal)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[order.ID]; exists {
		return fmt.Errorf("order %s: %w", order.ID, types.ErrDuplicateOrder)
	}
	o := order
	m.orders[order.ID] = &o
	return nil
}

// Get returns a copy of an order.
func (m *Manager) Get(id string) (types.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return types.Order{}, false
	}
	return *o, true
}

// Pending returns copies of all pending orders.
func (m *Manager) Pending() []types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []types.Order
	for _, o := range m.orders {
		if o.Status == types.OrderStatusPending {
			out = append(out, *o)
		}
	}
	return out
}

// PendingCount returns the number of pending orders.
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, o := range m.orders {
		if o.Status == types.OrderStatusPending {
			n++
		}
	}
	return n
}

// All returns copies of every tracked order.
func (m *Manager) All() []types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out
}

// MarkFilled promotes a pending order to filled. The fill transition takes
// priority over any concurrently scheduled sweep: it is a compare-and-set on
// the live status, refusing already-terminal orders.
func (m *Manager) MarkFilled(fill types.FillResult) (types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[fill.OrderID]
	if !ok {
		return types.Order{}, fmt.Errorf("order %s: %w", fill.OrderID, types.ErrOrderNotFound)
	}
	if o.Status != types.OrderStatusPending {
		return types.Order{}, fmt.Errorf("order %s status %s: %w", o.ID, o.Status, types.ErrOrderFinal)
	}

	filledAt := fill.FilledAt
	o.Status = types.OrderStatusFilled
	o.FilledAt = &filledAt
	o.FillPrice = fill.FillPrice

	m.logger.Info("order filled",
		"order_id", o.ID,
		"market", o.MarketID,
		"side", o.Side,
		"limit", o.LimitPrice,
		"fill_price", fill.FillPrice,
	)
	return *o, nil
}

// Cancel transitions a pending order to cancelled on explicit command.
// A stale cancel against an already-filled order is reported via
// ErrOrderFinal; the fill stands.
func (m *Manager) Cancel(id string) (types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return types.Order{}, fmt.Errorf("order %s: %w", id, types.ErrOrderNotFound)
	}
	if o.Status != types.OrderStatusPending {
		return types.Order{}, fmt.Errorf("order %s status %s: %w", o.ID, o.Status, types.ErrOrderFinal)
	}

	o.Status = types.OrderStatusCancelled
	m.logger.Info("order cancelled", "order_id", o.ID, "market", o.MarketID)
	return *o, nil
}

// SweepExpired expires every pending order older than timeout. The sweep
// snapshots candidate ids first but re-checks each order's live status at
// mutation time: an order filled between snapshot and mutation is silently
// skipped, never expired. Returns the expired orders and, when resubmission
// is enabled and the order has attempts left, the resubmission requests.
func (m *Manager) SweepExpired(timeout time.Duration, resubmitAfterCancel bool, maxResubmits int) ([]types.Order, []types.ResubmitRequest) {
	now := m.clock.Now()

	m.mu.Lock()
	var candidates []string
	for id, o := range m.orders {
		if o.Status == types.OrderStatusPending && now.Sub(o.CreatedAt) >= timeout {
			candidates = append(candidates, id)
		}
	}
	m.mu.Unlock()

	var expired []types.Order
	var resubmits []types.ResubmitRequest

	for _, id := range candidates {
		m.mu.Lock()
		o, ok := m.orders[id]
		if !ok || o.Status != types.OrderStatusPending {
			// Filled or cancelled since the snapshot; the other transition
			// is authoritative.
			m.mu.Unlock()
			continue
		}
		o.Status = types.OrderStatusExpired
		expiredOrder := *o
		m.mu.Unlock()

		m.logger.Info("order expired",
			"order_id", expiredOrder.ID,
			"market", expiredOrder.MarketID,
			"age", now.Sub(expiredOrder.CreatedAt).Round(time.Second),
			"resubmit_count", expiredOrder.ResubmitCount,
		)
		expired = append(expired, expiredOrder)

		if resubmitAfterCancel && expiredOrder.ResubmitCount < maxResubmits {
			resubmits = append(resubmits, types.ResubmitRequest{
				MarketID:      expiredOrder.MarketID,
				Side:          expiredOrder.Side,
				Size:          expiredOrder.Size,
				ResubmitCount: expiredOrder.ResubmitCount + 1,
			})
		}
	}

	return expired, resubmits
}

// clientOrderID creates a unique idempotency key for persistence.
func clientOrderID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.New().String()[:8])
}
