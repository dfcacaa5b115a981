package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordOrder("YES", "filled")
	r.RecordOrder("NO", "expired")
	r.RecordFill("YES")
	r.RecordOpportunities(4)
	r.RecordResubmit()
	r.RecordError("scanner")
}

func TestRecorder_Gauges(t *testing.T) {
	r := NewRecorder()

	r.RecordPendingOrders(3)
	r.RecordOpenPositions(2)
	r.RecordPnL(decimal.NewFromInt(-12), decimal.NewFromInt(88))
	r.RecordEngineRunning(true)
	r.RecordEngineRunning(false)
	r.RecordDailyLimit(true)
	r.RecordDailyLimit(false)
	r.RecordHeartbeat()
}

func TestRecorder_Latency(t *testing.T) {
	r := NewRecorder()

	r.RecordScanDuration(120 * time.Millisecond)
	r.RecordPricePollLatency(8 * time.Millisecond)
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)

	elapsed := timer.Elapsed()
	if elapsed < 10*time.Millisecond {
		t.Errorf("elapsed = %v, expected >= 10ms", elapsed)
	}
}

func TestSetBuildInfo(t *testing.T) {
	SetBuildInfo("1.0.0", "abc123", "2026-09-01")
}

func TestMetricsRegistered(t *testing.T) {
	// Registration happens through promauto; a nil collector means a
	// definition went missing.
	metrics := []prometheus.Collector{
		OrdersTotal,
		FillsTotal,
		OpportunitiesFound,
		ResubmitsTotal,
		OrdersPending,
		PositionsOpen,
		TodayPnL,
		TotalPnL,
		EngineRunning,
		DailyLimitReached,
		ScanDuration,
		PricePollLatency,
		ErrorsTotal,
		HeartbeatTimestamp,
		BuildInfo,
	}

	for _, m := range metrics {
		if m == nil {
			t.Error("metric is nil")
		}
	}
}
