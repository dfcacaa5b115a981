package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recorder provides methods for recording metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordOrder records an order reaching a status.
func (r *Recorder) RecordOrder(side, status string) {
	OrdersTotal.WithLabelValues(side, status).Inc()
}

// RecordFill records a detected fill.
func (r *Recorder) RecordFill(side string) {
	FillsTotal.WithLabelValues(side).Inc()
}

// RecordOpportunities records opportunities surfaced by one scan.
func (r *Recorder) RecordOpportunities(count int) {
	OpportunitiesFound.Add(float64(count))
}

// RecordResubmit records an expired order being replaced.
func (r *Recorder) RecordResubmit() {
	ResubmitsTotal.Inc()
}

// RecordPendingOrders records the current pending order count.
func (r *Recorder) RecordPendingOrders(count int) {
	OrdersPending.Set(float64(count))
}

// RecordOpenPositions records the current open position count.
func (r *Recorder) RecordOpenPositions(count int) {
	PositionsOpen.Set(float64(count))
}

// RecordPnL records today's and total PnL.
func (r *Recorder) RecordPnL(today, total decimal.Decimal) {
	TodayPnL.Set(today.InexactFloat64())
	TotalPnL.Set(total.InexactFloat64())
}

// RecordEngineRunning records whether scanning is active.
func (r *Recorder) RecordEngineRunning(running bool) {
	if running {
		EngineRunning.Set(1)
	} else {
		EngineRunning.Set(0)
	}
}

// RecordDailyLimit records the daily loss limit latch.
func (r *Recorder) RecordDailyLimit(reached bool) {
	if reached {
		DailyLimitReached.Set(1)
	} else {
		DailyLimitReached.Set(0)
	}
}

// RecordScanDuration records a full scan duration.
func (r *Recorder) RecordScanDuration(duration time.Duration) {
	ScanDuration.Observe(duration.Seconds())
}

// RecordPricePollLatency records a venue price poll round trip.
func (r *Recorder) RecordPricePollLatency(duration time.Duration) {
	PricePollLatency.Observe(duration.Seconds())
}

// RecordError records an error in a component.
func (r *Recorder) RecordError(component string) {
	ErrorsTotal.WithLabelValues(component).Inc()
}

// RecordHeartbeat records an engine heartbeat.
func (r *Recorder) RecordHeartbeat() {
	HeartbeatTimestamp.Set(float64(time.Now().Unix()))
}

// Timer measures elapsed time for latency metrics.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
