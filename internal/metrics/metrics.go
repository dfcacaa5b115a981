// Package metrics exposes Prometheus instrumentation for the snipe engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersTotal counts snipe orders by side and final status.
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polysniper_orders_total",
		Help: "Total snipe orders by side and status.",
	}, []string{"side", "status"})

	// FillsTotal counts detected fills by side.
	FillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polysniper_fills_total",
		Help: "Total detected fills by side.",
	}, []string{"side"})

	// OpportunitiesFound counts opportunities surfaced by scans.
	OpportunitiesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polysniper_opportunities_found_total",
		Help: "Total opportunities surfaced by market scans.",
	})

	// ResubmitsTotal counts expired orders replaced with fresh ones.
	ResubmitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polysniper_resubmits_total",
		Help: "Total expired orders resubmitted at the current market.",
	})

	// OrdersPending tracks the number of live pending orders.
	OrdersPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_orders_pending",
		Help: "Number of pending snipe orders.",
	})

	// PositionsOpen tracks the number of open positions.
	PositionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_positions_open",
		Help: "Number of open positions.",
	})

	// TodayPnL tracks PnL accumulated since the daily baseline.
	TodayPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_today_pnl",
		Help: "PnL since the start of the local trading day, in USD.",
	})

	// TotalPnL tracks unrealized PnL across open positions.
	TotalPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_total_pnl",
		Help: "Total unrealized PnL across open positions, in USD.",
	})

	// EngineRunning is 1 while scanning is active.
	EngineRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_engine_running",
		Help: "Whether the engine scan loop is active (1) or stopped (0).",
	})

	// DailyLimitReached is 1 while the daily loss limit is latched.
	DailyLimitReached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_daily_limit_reached",
		Help: "Whether the daily loss limit is latched (1) or clear (0).",
	})

	// ScanDuration observes full market scan durations.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polysniper_scan_duration_seconds",
		Help:    "Duration of full market scans.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	// PricePollLatency observes venue price poll round trips.
	PricePollLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polysniper_price_poll_latency_seconds",
		Help:    "Latency of venue price polls.",
		Buckets: prometheus.DefBuckets,
	})

	// ErrorsTotal counts errors by component.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polysniper_errors_total",
		Help: "Total errors by component.",
	}, []string{"component"})

	// HeartbeatTimestamp is the unix time of the last engine heartbeat.
	HeartbeatTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polysniper_heartbeat_timestamp",
		Help: "Unix timestamp of the last engine heartbeat.",
	})

	// BuildInfo carries version metadata as labels.
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "polysniper_build_info",
		Help: "Build information.",
	}, []string{"version", "commit", "date"})
)

// SetBuildInfo records build metadata.
func SetBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}
