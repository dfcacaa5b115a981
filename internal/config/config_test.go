package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

const validYAML = `
engine:
  min_profit_percent: 2.0
  target_discount: 3.0
  max_position_size: 100.0
  timeout_minutes: 60
  max_concurrent_orders: 5
  enable_laddering: true
  ladder_orders: 3
  ladder_spread_percent: 2.0
  min_liquidity: 1000
  max_spread: 0.10
  scan_interval_seconds: 30
  daily_loss_limit: 50.0
  auto_execute: true

market:
  type: "sim"
  rate_limit_per_second: 20

persistence:
  enabled: true
  type: "sqlite"
  path: "polysniper.db"

alerting:
  enabled: true
  channels:
    - type: "console"
  events: ["order_filled", "daily_limit_reached"]

metrics:
  enabled: true
  port: 9090
  path: "/metrics"
`

func TestLoadFromBytes_Valid(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Engine.TargetDiscount != 3.0 {
		t.Errorf("TargetDiscount = %f, want 3.0", cfg.Engine.TargetDiscount)
	}
	if cfg.Engine.MaxConcurrentOrders != 5 {
		t.Errorf("MaxConcurrentOrders = %d, want 5", cfg.Engine.MaxConcurrentOrders)
	}
	if !cfg.Persistence.Enabled || cfg.Persistence.Path != "polysniper.db" {
		t.Errorf("persistence not parsed: %+v", cfg.Persistence)
	}
	if cfg.Market.Type != "sim" {
		t.Errorf("market type = %s, want sim", cfg.Market.Type)
	}

	// Defaults applied for omitted cadences
	if cfg.Engine.FillCheckSeconds != 5 {
		t.Errorf("FillCheckSeconds = %d, want default 5", cfg.Engine.FillCheckSeconds)
	}
	if cfg.FillCheckInterval() != 5*time.Second {
		t.Errorf("FillCheckInterval = %v, want 5s", cfg.FillCheckInterval())
	}
}

func TestLoadFromBytes_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "discount out of range",
			yaml: `
engine:
  target_discount: 20
  max_position_size: 100
  max_concurrent_orders: 5
  max_spread: 0.1
  daily_loss_limit: 50
`,
			wantErr: "target_discount must be between 1 and 15",
		},
		{
			name: "auto execute in real mode",
			yaml: `
engine:
  target_discount: 3
  max_position_size: 100
  max_concurrent_orders: 5
  max_spread: 0.1
  daily_loss_limit: 50
  real_trading_mode: true
  auto_execute: true
`,
			wantErr: "auto_execute is not allowed in real_trading_mode",
		},
		{
			name: "sqlite without path",
			yaml: `
engine:
  target_discount: 3
  max_position_size: 100
  max_concurrent_orders: 5
  max_spread: 0.1
  daily_loss_limit: 50
persistence:
  enabled: true
  type: "sqlite"
`,
			wantErr: "persistence.path is required",
		},
		{
			name: "unknown alert channel",
			yaml: `
engine:
  target_discount: 3
  max_position_size: 100
  max_concurrent_orders: 5
  max_spread: 0.1
  daily_loss_limit: 50
alerting:
  enabled: true
  channels:
    - type: "pager"
`,
			wantErr: "unknown type 'pager'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, types.ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromBytes_ExpandsEnv(t *testing.T) {
	t.Setenv("POLYSNIPER_DB_PATH", "/tmp/sniper.db")

	yaml := `
engine:
  target_discount: 3
  max_position_size: 100
  max_concurrent_orders: 5
  max_spread: 0.1
  daily_loss_limit: 50
persistence:
  enabled: true
  type: "sqlite"
  path: "${POLYSNIPER_DB_PATH}"
`

	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Persistence.Path != "/tmp/sniper.db" {
		t.Errorf("path = %s, want /tmp/sniper.db", cfg.Persistence.Path)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.DailyLossLimit != 50.0 {
		t.Errorf("DailyLossLimit = %f, want 50.0", cfg.Engine.DailyLossLimit)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestToSettings(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	s := cfg.ToSettings()
	if !s.TargetDiscount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("TargetDiscount = %s, want 3", s.TargetDiscount)
	}
	if !s.MinLiquidity.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("MinLiquidity = %s, want 1000", s.MinLiquidity)
	}
	if !s.EnableLaddering {
		t.Error("EnableLaddering not carried over")
	}
	if s.OrderTimeout() != 60*time.Minute {
		t.Errorf("OrderTimeout = %v, want 60m", s.OrderTimeout())
	}
}

func TestIsAlertEventEnabled(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.IsAlertEventEnabled("order_filled") {
		t.Error("order_filled should be enabled")
	}
	if cfg.IsAlertEventEnabled("opportunity_found") {
		t.Error("opportunity_found should be filtered out")
	}

	cfg.Alerting.Events = nil
	if !cfg.IsAlertEventEnabled("anything") {
		t.Error("empty events list should enable all")
	}

	cfg.Alerting.Enabled = false
	if cfg.IsAlertEventEnabled("order_filled") {
		t.Error("disabled alerting should gate all events")
	}
}
