package positions

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

var hundred = decimal.NewFromInt(100)

// PriceSource reads the current outcome price for a market side.
type PriceSource interface {
	GetPrice(ctx context.Context, marketID string, side types.Side) (decimal.Decimal, error)
}

// Tracker holds the engine's open positions and refreshes their marks.
// Exit management lives elsewhere; the tracker only watches.
type Tracker struct {
	mu        sync.Mutex
	positions map[string]*types.Position

	logger *slog.Logger
}

// NewTracker creates an empty position tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		positions: make(map[string]*types.Position),
		logger:    logger,
	}
}

// Add registers an open position.
func (t *Tracker) Add(pos types.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := pos
	t.positions[pos.ID] = &p
}

// Remove drops a position, for the external exit flow to call on close.
func (t *Tracker) Remove(id string) (types.Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.positions[id]
	if !ok {
		return types.Position{}, false
	}
	delete(t.positions, id)
	return *p, true
}

// Open returns copies of all open positions.
func (t *Tracker) Open() []types.Position {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.Position, 0, len(t.positions))
	for _, p := range t.positions {
		out = append(out, *p)
	}
	return out
}

// Count returns the number of open positions.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.positions)
}

// TotalPnL sums unrealized P&L across open positions.
func (t *Tracker) TotalPnL() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := decimal.Zero
	for _, p := range t.positions {
		total = total.Add(p.PnL)
	}
	return total
}

// Refresh re-marks every open position against the price source. A failed
// price read leaves that position's last mark in place and moves on.
func (t *Tracker) Refresh(ctx context.Context, prices PriceSource) {
	for _, pos := range t.Open() {
		price, err := prices.GetPrice(ctx, pos.MarketID, pos.Side)
		if err != nil {
			t.logger.Debug("position refresh skipped",
				"position_id", pos.ID,
				"market", pos.MarketID,
				"err", err,
			)
			continue
		}
		t.mark(pos.ID, price)
	}
}

// mark updates one position's current price and unrealized P&L.
func (t *Tracker) mark(id string, price decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.positions[id]
	if !ok || !p.EntryPrice.IsPositive() {
		return
	}

	p.CurrentPrice = price
	change := price.Sub(p.EntryPrice).Div(p.EntryPrice)
	p.PnL = p.Size.Mul(change)
	p.PnLPercent = change.Mul(hundred)
}
