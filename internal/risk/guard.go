// Package risk gates the automation loop behind a daily loss limit and an
// unconditional emergency stop.
package risk

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// Guard observes aggregate P&L and halts the scanning/execution path when the
// day's loss exceeds the configured limit. Wind-down loops are not its
// concern; only new automation stops.
type Guard struct {
	mu sync.Mutex

	running       bool
	limitReached  bool
	todayStartPnL decimal.Decimal
	baselineDay   string // local date of the current baseline, YYYY-MM-DD

	clock  types.Clock
	logger *slog.Logger
}

// NewGuard creates a guard with its baseline at zero, stopped.
func NewGuard(clock types.Clock, logger *slog.Logger) *Guard {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		clock:       clock,
		logger:      logger,
		baselineDay: clock.Now().Format("2006-01-02"),
	}
}

// Start enables the automation path. Refused while the daily limit stands;
// recovery requires Reset first.
func (g *Guard) Start(currentTotalPnL decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rolloverLocked(currentTotalPnL)

	if g.limitReached {
		return fmt.Errorf("start refused: %w", types.ErrRiskLimitBreached)
	}
	g.running = true
	g.logger.Info("risk guard: automation enabled", "today_start_pnl", g.todayStartPnL)
	return nil
}

// Stop halts the automation path without touching the limit state.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		g.running = false
		g.logger.Info("risk guard: automation stopped")
	}
}

// EmergencyStop forces isRunning false unconditionally, bypassing the
// loss-limit logic. Always available.
func (g *Guard) EmergencyStop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.running = false
	g.logger.Error("EMERGENCY STOP - automation halted by operator")
}

// Evaluate checks today's P&L against the loss limit. On breach it latches
// the daily-limit flag, forces the run loop off, and returns true. The
// baseline rolls over at local midnight.
func (g *Guard) Evaluate(currentTotalPnL, dailyLossLimit decimal.Decimal) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rolloverLocked(currentTotalPnL)

	todayPnL := currentTotalPnL.Sub(g.todayStartPnL)
	if todayPnL.GreaterThanOrEqual(dailyLossLimit.Neg()) {
		return false
	}

	if !g.limitReached {
		g.logger.Error("DAILY LOSS LIMIT REACHED - halting automation",
			"today_pnl", todayPnL,
			"limit", dailyLossLimit,
		)
	}
	g.limitReached = true
	g.running = false
	return true
}

// TodayPnL returns today's P&L relative to the baseline.
func (g *Guard) TodayPnL(currentTotalPnL decimal.Decimal) decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rolloverLocked(currentTotalPnL)
	return currentTotalPnL.Sub(g.todayStartPnL)
}

// Reset is the manual acknowledgment: it rebaselines today's start to the
// current total and clears the limit flag. The operator restarts the
// automation separately via Start.
func (g *Guard) Reset(currentTotalPnL decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.todayStartPnL = currentTotalPnL
	g.baselineDay = g.clock.Now().Format("2006-01-02")
	g.limitReached = false
	g.logger.Warn("risk guard: daily limit acknowledged and rebaselined",
		"today_start_pnl", g.todayStartPnL,
	)
}

// IsRunning reports whether the automation path is enabled.
func (g *Guard) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// DailyLimitReached reports whether the loss-limit latch is set.
func (g *Guard) DailyLimitReached() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limitReached
}

// State returns a snapshot of the guard's externally visible state.
func (g *Guard) State() types.RiskState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return types.RiskState{
		IsRunning:           g.running,
		IsDailyLimitReached: g.limitReached,
		TodayStartPnL:       g.todayStartPnL,
	}
}

// rolloverLocked rebaselines at local midnight. Must be called with the lock
// held.
func (g *Guard) rolloverLocked(currentTotalPnL decimal.Decimal) {
	day := g.clock.Now().Format("2006-01-02")
	if day == g.baselineDay {
		return
	}

	g.baselineDay = day
	g.todayStartPnL = currentTotalPnL
	g.limitReached = false
	g.logger.Info("risk guard: new trading day, baseline reset",
		"today_start_pnl", g.todayStartPnL,
	)
}
