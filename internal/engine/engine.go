// Package engine coordinates scanning, pricing, order lifecycle and risk.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/alerting"
	"github.com/owade/polysniper/internal/depth"
	"github.com/owade/polysniper/internal/lifecycle"
	"github.com/owade/polysniper/internal/market"
	"github.com/owade/polysniper/internal/metrics"
	"github.com/owade/polysniper/internal/persistence"
	"github.com/owade/polysniper/internal/positions"
	"github.com/owade/polysniper/internal/pricing"
	"github.com/owade/polysniper/internal/risk"
	"github.com/owade/polysniper/internal/scanner"
	"github.com/owade/polysniper/internal/types"
)

// Config holds engine loop cadences and ladder shape.
type Config struct {
	FillCheckInterval    time.Duration
	OrderManageInterval  time.Duration
	PriceRefreshInterval time.Duration
	LadderSpreadPercent  decimal.Decimal
}

// DefaultConfig returns default engine config.
func DefaultConfig() Config {
	return Config{
		FillCheckInterval:    5 * time.Second,
		OrderManageInterval:  10 * time.Second,
		PriceRefreshInterval: 5 * time.Second,
		LadderSpreadPercent:  decimal.NewFromInt(2),
	}
}

// Engine runs the four snipe loops against one venue.
//
// The scan loop finds and places orders, the fill loop detects fills and
// opens positions, the manage loop expires stale orders, and the refresh
// loop marks positions and evaluates the daily loss limit. Loops run until
// Shutdown; Stop halts scanning and order management while fills and
// position marks continue.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	venue    market.Client
	scanner  *scanner.Scanner
	orders   *lifecycle.Manager
	detector *lifecycle.FillDetector
	tracker  *positions.Tracker
	guard    *risk.Guard
	repo     persistence.Repository // nil disables persistence
	alerter  alerting.Alerter       // nil disables alerts
	recorder *metrics.Recorder
	clock    types.Clock

	mu            sync.RWMutex
	settings      types.EngineSettings
	opportunities []types.Opportunity
	summary       persistence.DailySummary
	started       bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewEngine creates a new snipe engine.
func NewEngine(
	cfg Config,
	venue market.Client,
	repo persistence.Repository,
	alerter alerting.Alerter,
	settings types.EngineSettings,
	clock types.Clock,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	if cfg.LadderSpreadPercent.IsZero() {
		cfg.LadderSpreadPercent = decimal.NewFromInt(2)
	}

	return &Engine{
		cfg:      cfg,
		logger:   logger,
		venue:    venue,
		scanner:  scanner.New(venue, clock, logger),
		orders:   lifecycle.NewManager(clock, logger),
		detector: lifecycle.NewFillDetector(venue, clock, logger),
		tracker:  positions.NewTracker(logger),
		guard:    risk.NewGuard(clock, logger),
		repo:     repo,
		alerter:  alerter,
		recorder: metrics.NewRecorder(),
		clock:    clock,
		settings: settings,
		done:     make(chan struct{}),
	}
}

// Start recovers persisted state, arms the risk guard and launches the loops.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("engine already running")
	}
	e.started = true
	e.mu.Unlock()

	e.mu.Lock()
	e.summary = persistence.DailySummary{Day: e.clock.Now().Format("2006-01-02")}
	e.mu.Unlock()

	if err := e.recover(ctx); err != nil {
		return fmt.Errorf("recover state: %w", err)
	}

	if err := e.guard.Start(e.tracker.TotalPnL()); err != nil {
		return err
	}

	settings := e.Settings()
	e.logger.Info("starting snipe engine",
		"scan_interval", settings.ScanInterval(),
		"max_concurrent_orders", settings.MaxConcurrentOrders,
		"auto_execute", settings.AutoExecute,
	)

	e.wg.Add(4)
	go e.scanLoop(ctx)
	go e.fillLoop(ctx)
	go e.manageLoop(ctx)
	go e.refreshLoop(ctx)

	e.recorder.RecordEngineRunning(true)
	e.alert(ctx, alerting.EventEngineStarted, "Snipe engine started",
		"pending_orders", e.orders.PendingCount(),
		"open_positions", e.tracker.Count(),
	)

	return nil
}

// recover reloads pending orders and open positions from the repository.
func (e *Engine) recover(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}

	pending, err := e.repo.GetPendingOrders(ctx)
	if err != nil {
		return fmt.Errorf("load pending orders: %w", err)
	}
	for _, o := range pending {
		if err := e.orders.Add(o); err != nil {
			e.logger.Warn("skipping persisted order", "order_id", o.ID, "err", err)
		}
	}

	open, err := e.repo.GetOpenPositions(ctx)
	if err != nil {
		return fmt.Errorf("load open positions: %w", err)
	}
	for _, p := range open {
		e.tracker.Add(p)
	}

	// Resume today's summary row so a restart does not reset the counts.
	today := e.clock.Now().Format("2006-01-02")
	if s, err := e.repo.GetDailySummary(ctx, today); err != nil {
		e.logger.Warn("load daily summary", "day", today, "err", err)
	} else if s != nil {
		e.mu.Lock()
		e.summary = *s
		e.mu.Unlock()
	}

	if len(pending) > 0 || len(open) > 0 {
		e.logger.Info("recovered persisted state",
			"pending_orders", len(pending),
			"open_positions", len(open),
		)
	}

	return nil
}

// scanLoop scans markets and places orders on the configured cadence.
func (e *Engine) scanLoop(ctx context.Context) {
	defer e.wg.Done()

	interval := e.Settings().ScanInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.scanTick(ctx)
			if next := e.Settings().ScanInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (e *Engine) scanTick(ctx context.Context) {
	if !e.guard.IsRunning() || e.guard.DailyLimitReached() {
		return
	}

	settings := e.Settings()
	timer := metrics.NewTimer()

	opps, err := e.scanner.Scan(ctx, settings, e.orders.PendingCount())
	e.recorder.RecordScanDuration(timer.Elapsed())
	e.recorder.RecordHeartbeat()
	if err != nil {
		e.logger.Error("scan failed", "err", err)
		e.recorder.RecordError("scanner")
		return
	}

	e.mu.Lock()
	e.opportunities = opps
	e.mu.Unlock()

	if len(opps) == 0 {
		return
	}

	e.recorder.RecordOpportunities(len(opps))
	top := opps[0]
	e.alert(ctx, alerting.EventOpportunityFound, "Opportunity found",
		"market", top.Market.Title,
		"side", top.Side.String(),
		"recommended", top.Pricing.RecommendedPrice.String(),
		"confidence", top.Pricing.Confidence,
	)

	if settings.AutoExecute && !settings.RealTradingMode {
		e.execute(ctx, settings, opps)
	}
}

// execute places orders for opportunities until the concurrency cap is hit.
func (e *Engine) execute(ctx context.Context, settings types.EngineSettings, opps []types.Opportunity) {
	for _, opp := range opps {
		if e.orders.PendingCount() >= settings.MaxConcurrentOrders {
			return
		}
		if e.hasPendingFor(opp.Market.ID, opp.Side) {
			continue
		}

		size := settings.MaxPositionSize

		if settings.EnableLaddering && settings.LadderOrders > 1 {
			ladder, err := pricing.BuildLadder(size, opp.Pricing, settings.LadderOrders, e.cfg.LadderSpreadPercent)
			if err != nil {
				e.logger.Warn("ladder rejected", "market", opp.Market.ID, "err", err)
				continue
			}
			for i, tier := range ladder.Tiers {
				if e.orders.PendingCount() >= settings.MaxConcurrentOrders {
					return
				}
				order := lifecycle.NewOrder(opp.Market, opp.Side, tier.Price, opp.Pricing.CurrentPrice, tier.Discount, tier.Size, i, 0, e.clock.Now())
				e.place(ctx, order)
			}
			continue
		}

		order := lifecycle.NewOrder(opp.Market, opp.Side, opp.Pricing.RecommendedPrice, opp.Pricing.CurrentPrice, opp.Pricing.Discount, size, -1, 0, e.clock.Now())
		e.place(ctx, order)
	}
}

func (e *Engine) hasPendingFor(marketID string, side types.Side) bool {
	for _, o := range e.orders.Pending() {
		if o.MarketID == marketID && o.Side == side {
			return true
		}
	}
	return false
}

// place registers, persists and announces one order.
func (e *Engine) place(ctx context.Context, order types.Order) {
	if err := e.orders.Add(order); err != nil {
		e.logger.Warn("order rejected", "order_id", order.ID, "err", err)
		return
	}

	if e.repo != nil {
		if err := e.repo.SaveOrder(ctx, order); err != nil {
			e.logger.Error("persist order", "order_id", order.ID, "err", err)
			e.recorder.RecordError("persistence")
		}
	}

	e.recorder.RecordOrder(order.Side.String(), "placed")
	e.recorder.RecordPendingOrders(e.orders.PendingCount())
	e.bumpSummary(func(s *persistence.DailySummary) { s.OrdersPlaced++ })

	e.logger.Info("order placed",
		"order_id", order.ID,
		"market", order.MarketID,
		"side", order.Side,
		"limit", order.LimitPrice,
		"size", order.Size,
		"discount", order.Discount,
		"ladder_index", order.LadderIndex,
	)

	e.alert(ctx, alerting.EventOrderPlaced, "Snipe order placed",
		"market", order.MarketTitle,
		"side", order.Side.String(),
		"limit", order.LimitPrice.String(),
		"size", order.Size.StringFixed(2),
	)
}

// fillLoop polls prices against pending limits and opens positions on fills.
func (e *Engine) fillLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.FillCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.fillTick(ctx)
		}
	}
}

func (e *Engine) fillTick(ctx context.Context) {
	fills := e.detector.Check(ctx, e.orders.Pending())

	for _, fill := range fills {
		order, err := e.orders.MarkFilled(fill)
		if err != nil {
			// Lost the race against an expiry sweep.
			e.logger.Debug("fill dropped", "order_id", fill.OrderID, "err", err)
			continue
		}

		pos, err := positions.NewFromOrder(order, fill.FillPrice, fill.FilledAt)
		if err != nil {
			e.logger.Error("position from fill", "order_id", order.ID, "err", err)
			e.recorder.RecordError("positions")
			continue
		}
		e.tracker.Add(pos)

		if e.repo != nil {
			if err := e.repo.UpdateOrderStatus(ctx, order.ClientOrderID, types.OrderStatusFilled, fill.FillPrice); err != nil {
				e.logger.Error("persist fill", "order_id", order.ID, "err", err)
				e.recorder.RecordError("persistence")
			}
			if err := e.repo.SavePosition(ctx, pos); err != nil {
				e.logger.Error("persist position", "position_id", pos.ID, "err", err)
				e.recorder.RecordError("persistence")
			}
		}

		e.recorder.RecordFill(order.Side.String())
		e.recorder.RecordOrder(order.Side.String(), "filled")
		e.bumpSummary(func(s *persistence.DailySummary) { s.OrdersFilled++ })

		e.logger.Info("order filled",
			"order_id", order.ID,
			"market", order.MarketID,
			"fill_price", fill.FillPrice,
			"limit", order.LimitPrice,
		)

		e.alert(ctx, alerting.EventOrderFilled, "Snipe order filled",
			"market", order.MarketTitle,
			"side", order.Side.String(),
			"fill_price", fill.FillPrice.String(),
			"size", order.Size.StringFixed(2),
		)
	}

	e.recorder.RecordPendingOrders(e.orders.PendingCount())
	e.recorder.RecordOpenPositions(e.tracker.Count())
}

// manageLoop expires stale orders and resubmits when configured.
func (e *Engine) manageLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.OrderManageInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.manageTick(ctx)
		}
	}
}

func (e *Engine) manageTick(ctx context.Context) {
	// Expiry and resubmission are automation. A stopped or latched engine
	// must not turn stale orders into fresh exposure.
	if !e.guard.IsRunning() {
		return
	}

	settings := e.Settings()

	expired, resubmits := e.orders.SweepExpired(settings.OrderTimeout(), settings.ResubmitAfterCancel, settings.MaxResubmits)
	for _, o := range expired {
		if e.repo != nil {
			if err := e.repo.UpdateOrderStatus(ctx, o.ClientOrderID, types.OrderStatusExpired, decimal.Zero); err != nil {
				e.logger.Error("persist expiry", "order_id", o.ID, "err", err)
				e.recorder.RecordError("persistence")
			}
		}
		e.recorder.RecordOrder(o.Side.String(), "expired")
		e.bumpSummary(func(s *persistence.DailySummary) { s.OrdersExpired++ })
		e.alert(ctx, alerting.EventOrderExpired, "Snipe order expired",
			"market", o.MarketTitle,
			"side", o.Side.String(),
			"limit", o.LimitPrice.String(),
			"age", settings.OrderTimeout().String(),
		)
	}

	for _, req := range resubmits {
		e.resubmit(ctx, settings, req)
	}

	e.recorder.RecordPendingOrders(e.orders.PendingCount())
}

// resubmit replaces an expired order with one priced at the current market.
func (e *Engine) resubmit(ctx context.Context, settings types.EngineSettings, req types.ResubmitRequest) {
	if e.orders.PendingCount() >= settings.MaxConcurrentOrders {
		e.logger.Debug("resubmit skipped, order cap reached", "market", req.MarketID)
		return
	}

	m, err := e.venue.GetMarket(ctx, req.MarketID)
	if err != nil {
		e.logger.Warn("resubmit market lookup", "market", req.MarketID, "err", err)
		return
	}

	book, err := e.venue.GetOrderBook(ctx, req.MarketID, req.Side)
	if err != nil {
		e.logger.Warn("resubmit book lookup", "market", req.MarketID, "err", err)
		return
	}
	d, err := depth.Analyze(book)
	if err != nil {
		e.logger.Warn("resubmit depth", "market", req.MarketID, "err", err)
		return
	}

	opt := pricing.Compute(pricing.Request{
		MarketID:         req.MarketID,
		Side:             req.Side,
		CurrentPrice:     m.Price(req.Side),
		TargetDiscount:   settings.TargetDiscount,
		MinProfitPercent: settings.MinProfitPercent,
		Depth:            d,
	})

	order := lifecycle.NewOrder(m, req.Side, opt.RecommendedPrice, opt.CurrentPrice, opt.Discount, req.Size, -1, req.ResubmitCount, e.clock.Now())
	e.place(ctx, order)
	e.recorder.RecordResubmit()

	e.alert(ctx, alerting.EventOrderResubmitted, "Snipe order resubmitted",
		"market", m.Title,
		"side", req.Side.String(),
		"limit", opt.RecommendedPrice.String(),
		"attempt", req.ResubmitCount,
	)
}

// refreshLoop marks positions and evaluates the daily loss limit.
func (e *Engine) refreshLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.PriceRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.refreshTick(ctx)
		}
	}
}

func (e *Engine) refreshTick(ctx context.Context) {
	e.tracker.Refresh(ctx, e.venue)

	settings := e.Settings()
	total := e.tracker.TotalPnL()
	today := e.guard.TodayPnL(total)

	alreadyLatched := e.guard.DailyLimitReached()
	breached := e.guard.Evaluate(total, settings.DailyLossLimit) && !alreadyLatched

	e.recorder.RecordPnL(today, total)
	e.recorder.RecordEngineRunning(e.guard.IsRunning())
	e.recorder.RecordDailyLimit(e.guard.DailyLimitReached())

	if breached {
		e.handleDailyLimit(ctx, today, settings.DailyLossLimit)
	}

	e.rollSummary(ctx, today)
	e.persistState(ctx)
}

// bumpSummary mutates the current day's summary under the engine lock.
func (e *Engine) bumpSummary(mutate func(*persistence.DailySummary)) {
	e.mu.Lock()
	mutate(&e.summary)
	e.mu.Unlock()
}

// rollSummary keeps the day's summary row persisted and, when the local
// date changes, closes out the previous day: its final row is written and
// the end-of-day report goes out before the counters reset.
func (e *Engine) rollSummary(ctx context.Context, todayPnL decimal.Decimal) {
	day := e.clock.Now().Format("2006-01-02")

	e.mu.Lock()
	if e.summary.Day == "" {
		e.summary.Day = day
	}
	var closed persistence.DailySummary
	rolled := e.summary.Day != day
	if rolled {
		closed = e.summary
		e.summary = persistence.DailySummary{Day: day}
	}
	e.summary.RealizedPnL = todayPnL
	current := e.summary
	e.mu.Unlock()

	if rolled {
		e.persistSummary(ctx, closed)
		e.sendDailySummary(ctx, closed)
	}
	e.persistSummary(ctx, current)
}

func (e *Engine) persistSummary(ctx context.Context, s persistence.DailySummary) {
	if e.repo == nil {
		return
	}
	if err := e.repo.UpsertDailySummary(ctx, s); err != nil {
		e.logger.Error("persist daily summary", "day", s.Day, "err", err)
		e.recorder.RecordError("persistence")
	}
}

// sendDailySummary announces the day's totals and hands the structured
// report to channels that can render one.
func (e *Engine) sendDailySummary(ctx context.Context, s persistence.DailySummary) {
	e.alert(ctx, alerting.EventDailySummary, "Daily snipe summary",
		"day", s.Day,
		"orders_placed", s.OrdersPlaced,
		"orders_filled", s.OrdersFilled,
		"orders_expired", s.OrdersExpired,
		"orders_cancelled", s.OrdersCancelled,
		"realized_pnl", s.RealizedPnL.StringFixed(2),
	)

	if sender, ok := e.alerter.(alerting.DailySummarySender); ok {
		if err := sender.SendDailySummary(ctx, s); err != nil {
			e.logger.Warn("daily summary delivery failed", "day", s.Day, "err", err)
		}
	}
}

// handleDailyLimit reacts to the loss limit tripping: cancel everything
// pending and announce.
func (e *Engine) handleDailyLimit(ctx context.Context, today, limit decimal.Decimal) {
	e.logger.Error("DAILY LOSS LIMIT REACHED",
		"today_pnl", today,
		"limit", limit,
	)

	e.cancelAllPending(ctx)

	e.alert(ctx, alerting.EventDailyLimitReached, "Daily loss limit reached",
		"today_pnl", today.StringFixed(2),
		"limit", limit.StringFixed(2),
	)
}

// cancelAllPending cancels every pending order and persists the cancels.
func (e *Engine) cancelAllPending(ctx context.Context) {
	for _, o := range e.orders.Pending() {
		cancelled, err := e.orders.Cancel(o.ID)
		if err != nil {
			// Filled in the meantime; leave it alone.
			continue
		}
		if e.repo != nil {
			if err := e.repo.UpdateOrderStatus(ctx, cancelled.ClientOrderID, types.OrderStatusCancelled, decimal.Zero); err != nil {
				e.logger.Error("persist cancel", "order_id", cancelled.ID, "err", err)
				e.recorder.RecordError("persistence")
			}
		}
		e.recorder.RecordOrder(cancelled.Side.String(), "cancelled")
		e.bumpSummary(func(s *persistence.DailySummary) { s.OrdersCancelled++ })
	}
	e.recorder.RecordPendingOrders(e.orders.PendingCount())
}

func (e *Engine) persistState(ctx context.Context) {
	if e.repo == nil {
		return
	}

	state := e.guard.State()
	err := e.repo.SaveEngineState(ctx, persistence.EngineState{
		LastUpdated:       e.clock.Now(),
		IsRunning:         state.IsRunning,
		DailyLimitReached: state.IsDailyLimitReached,
		TodayStartPnL:     state.TodayStartPnL,
		BaselineDay:       e.clock.Now().Format("2006-01-02"),
		TotalPnL:          e.tracker.TotalPnL(),
	})
	if err != nil {
		e.logger.Error("persist engine state", "err", err)
		e.recorder.RecordError("persistence")
	}
}

// Stop halts scanning and order management. Fill detection and position
// refresh keep running so live orders stay supervised; pending orders are
// held as-is until Resume or Shutdown.
func (e *Engine) Stop(ctx context.Context) {
	e.guard.Stop()
	e.recorder.RecordEngineRunning(false)
	e.logger.Info("scanning stopped")
	e.alert(ctx, alerting.EventEngineStopped, "Scanning stopped")
}

// Resume re-arms the guard and scanning. Fails while the daily limit is
// latched.
func (e *Engine) Resume(ctx context.Context) error {
	if err := e.guard.Start(e.tracker.TotalPnL()); err != nil {
		return err
	}
	e.recorder.RecordEngineRunning(true)
	e.logger.Info("scanning resumed")
	return nil
}

// EmergencyStop halts everything placeable immediately and cancels all
// pending orders. Bypasses the daily limit latch.
func (e *Engine) EmergencyStop(ctx context.Context) {
	e.guard.EmergencyStop()
	e.cancelAllPending(ctx)
	e.recorder.RecordEngineRunning(false)
	e.alert(ctx, alerting.EventEmergencyStop, "EMERGENCY STOP",
		"pending_cancelled", true,
	)
}

// ResetDailyLimit rebaselines today's PnL and clears the latch. Scanning
// stays stopped until Resume.
func (e *Engine) ResetDailyLimit() {
	e.guard.Reset(e.tracker.TotalPnL())
}

// Shutdown winds the engine down: scanning stops first, then pending
// orders get a grace window to resolve before the rest are cancelled.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = false
	e.mu.Unlock()

	e.logger.Info("shutting down snipe engine")
	e.guard.Stop()

	// Grace window for in-flight orders.
	wait := time.NewTicker(time.Second)
	defer wait.Stop()
drain:
	for e.orders.PendingCount() > 0 {
		select {
		case <-ctx.Done():
			break drain
		case <-wait.C:
			e.fillTick(ctx)
		}
	}

	e.cancelAllPending(ctx)

	close(e.done)
	e.wg.Wait()

	e.persistState(ctx)
	e.recorder.RecordEngineRunning(false)

	e.mu.Lock()
	final := e.summary
	e.mu.Unlock()
	final.RealizedPnL = e.guard.TodayPnL(e.tracker.TotalPnL())
	e.persistSummary(ctx, final)
	e.sendDailySummary(ctx, final)

	e.alert(ctx, alerting.EventEngineStopped, "Snipe engine stopped",
		"open_positions", e.tracker.Count(),
	)
	e.logger.Info("snipe engine stopped")

	return nil
}

// UpdateSettings swaps the runtime settings. Loops pick the change up on
// their next tick.
func (e *Engine) UpdateSettings(s types.EngineSettings) error {
	if s.MaxConcurrentOrders <= 0 {
		return fmt.Errorf("%w: max concurrent orders must be positive", types.ErrInvalidConfig)
	}
	if s.ScanIntervalSeconds <= 0 {
		return fmt.Errorf("%w: scan interval must be positive", types.ErrInvalidConfig)
	}
	if s.RealTradingMode && s.AutoExecute {
		return fmt.Errorf("%w: auto execute is not allowed in real trading mode", types.ErrInvalidConfig)
	}

	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()

	e.logger.Info("settings updated",
		"target_discount", s.TargetDiscount,
		"max_concurrent_orders", s.MaxConcurrentOrders,
		"auto_execute", s.AutoExecute,
	)
	return nil
}

// Settings returns a snapshot of the runtime settings.
func (e *Engine) Settings() types.EngineSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Opportunities returns the most recent scan results, best first.
func (e *Engine) Opportunities() []types.Opportunity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Opportunity, len(e.opportunities))
	copy(out, e.opportunities)
	return out
}

// PendingOrders returns the live pending orders.
func (e *Engine) PendingOrders() []types.Order {
	return e.orders.Pending()
}

// OpenPositions returns the open positions.
func (e *Engine) OpenPositions() []types.Position {
	return e.tracker.Open()
}

// RiskState returns the guard's current state.
func (e *Engine) RiskState() types.RiskState {
	return e.guard.State()
}

func (e *Engine) alert(ctx context.Context, event alerting.AlertEvent, message string, fields ...any) {
	if e.alerter == nil {
		return
	}
	severity := alerting.EventSeverity(event)
	if err := e.alerter.Alert(ctx, severity, message, fields...); err != nil {
		e.logger.Warn("alert failed", "event", string(event), "err", err)
	}
}
