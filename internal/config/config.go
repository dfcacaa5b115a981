// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/owade/polysniper/internal/types"
)

// Config represents the full application configuration.
type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Market      MarketConfig      `yaml:"market"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Alerting    AlertingConfig    `yaml:"alerting"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Shutdown    ShutdownConfig    `yaml:"shutdown"`
}

// EngineConfig holds snipe engine settings.
type EngineConfig struct {
	MinProfitPercent    float64 `yaml:"min_profit_percent"`
	TargetDiscount      float64 `yaml:"target_discount"`
	MaxPositionSize     float64 `yaml:"max_position_size"`
	TimeoutMinutes      int     `yaml:"timeout_minutes"`
	MaxConcurrentOrders int     `yaml:"max_concurrent_orders"`
	EnableLaddering     bool    `yaml:"enable_laddering"`
	LadderOrders        int     `yaml:"ladder_orders"`
	LadderSpreadPercent float64 `yaml:"ladder_spread_percent"`
	ResubmitAfterCancel bool    `yaml:"resubmit_after_cancel"`
	MaxResubmits        int     `yaml:"max_resubmits"`
	MinLiquidity        float64 `yaml:"min_liquidity"`
	MaxSpread           float64 `yaml:"max_spread"`
	ScanIntervalSeconds int     `yaml:"scan_interval_seconds"`
	DailyLossLimit      float64 `yaml:"daily_loss_limit"`
	AutoExecute         bool    `yaml:"auto_execute"`
	RealTradingMode     bool    `yaml:"real_trading_mode"`
	FillCheckSeconds    int     `yaml:"fill_check_seconds"`
	OrderManageSeconds  int     `yaml:"order_manage_seconds"`
	PriceRefreshSeconds int     `yaml:"price_refresh_seconds"`
}

// MarketConfig holds venue settings.
type MarketConfig struct {
	Type               string `yaml:"type"` // sim
	RateLimitPerSecond int    `yaml:"rate_limit_per_second"`
	Seed               int64  `yaml:"seed"`
	MaxStep            float64 `yaml:"max_step"` // sim price walk step size
}

// PersistenceConfig holds persistence settings.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // sqlite
	Path    string `yaml:"path"`
}

// AlertingConfig holds alerting settings.
type AlertingConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Channels []ChannelConfig `yaml:"channels"`
	Events   []string        `yaml:"events"`
}

// ChannelConfig holds a single alert channel configuration.
type ChannelConfig struct {
	Type     string `yaml:"type"` // console | telegram
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// ShutdownConfig holds shutdown settings.
type ShutdownConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration, collecting every problem before
// reporting.
func (c *Config) Validate() error {
	var errs []string

	if c.Engine.MinProfitPercent < 0 {
		errs = append(errs, "engine.min_profit_percent must not be negative")
	}
	if c.Engine.TargetDiscount < 1 || c.Engine.TargetDiscount > 15 {
		errs = append(errs, "engine.target_discount must be between 1 and 15")
	}
	if c.Engine.MaxPositionSize <= 0 {
		errs = append(errs, "engine.max_position_size must be positive")
	}
	if c.Engine.MaxConcurrentOrders <= 0 {
		errs = append(errs, "engine.max_concurrent_orders must be positive")
	}
	if c.Engine.EnableLaddering && c.Engine.LadderOrders < 1 {
		errs = append(errs, "engine.ladder_orders must be at least 1 when laddering is enabled")
	}
	if c.Engine.ResubmitAfterCancel && c.Engine.MaxResubmits < 1 {
		errs = append(errs, "engine.max_resubmits must be at least 1 when resubmit is enabled")
	}
	if c.Engine.MinLiquidity < 0 {
		errs = append(errs, "engine.min_liquidity must not be negative")
	}
	if c.Engine.MaxSpread <= 0 || c.Engine.MaxSpread > 1 {
		errs = append(errs, "engine.max_spread must be between 0 and 1")
	}
	if c.Engine.DailyLossLimit <= 0 {
		errs = append(errs, "engine.daily_loss_limit must be positive")
	}
	if c.Engine.RealTradingMode && c.Engine.AutoExecute {
		errs = append(errs, "engine.auto_execute is not allowed in real_trading_mode")
	}

	// Tick cadences default instead of erroring
	if c.Engine.TimeoutMinutes <= 0 {
		c.Engine.TimeoutMinutes = 60
	}
	if c.Engine.ScanIntervalSeconds <= 0 {
		c.Engine.ScanIntervalSeconds = 30
	}
	if c.Engine.FillCheckSeconds <= 0 {
		c.Engine.FillCheckSeconds = 5
	}
	if c.Engine.OrderManageSeconds <= 0 {
		c.Engine.OrderManageSeconds = 10
	}
	if c.Engine.PriceRefreshSeconds <= 0 {
		c.Engine.PriceRefreshSeconds = 5
	}
	if c.Shutdown.TimeoutSec <= 0 {
		c.Shutdown.TimeoutSec = 30
	}

	if c.Market.Type == "" {
		c.Market.Type = "sim"
	}
	if c.Market.Type != "sim" {
		errs = append(errs, fmt.Sprintf("market.type '%s' is not supported", c.Market.Type))
	}

	if c.Persistence.Enabled {
		if c.Persistence.Type != "sqlite" {
			errs = append(errs, "persistence.type must be 'sqlite'")
		}
		if c.Persistence.Path == "" {
			errs = append(errs, "persistence.path is required for sqlite")
		}
	}

	if c.Alerting.Enabled {
		for i, ch := range c.Alerting.Channels {
			switch ch.Type {
			case "console":
			case "telegram":
				if ch.BotToken == "" || ch.ChatID == "" {
					errs = append(errs, fmt.Sprintf("alerting.channels[%d]: telegram requires bot_token and chat_id", i))
				}
			default:
				errs = append(errs, fmt.Sprintf("alerting.channels[%d]: unknown type '%s'", i, ch.Type))
			}
		}
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = append(errs, "metrics.port must be a valid port")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ToSettings converts the engine section to runtime settings.
func (c *Config) ToSettings() types.EngineSettings {
	return types.EngineSettings{
		MinProfitPercent:    decimal.NewFromFloat(c.Engine.MinProfitPercent),
		TargetDiscount:      decimal.NewFromFloat(c.Engine.TargetDiscount),
		MaxPositionSize:     decimal.NewFromFloat(c.Engine.MaxPositionSize),
		TimeoutMinutes:      c.Engine.TimeoutMinutes,
		MaxConcurrentOrders: c.Engine.MaxConcurrentOrders,
		EnableLaddering:     c.Engine.EnableLaddering,
		LadderOrders:        c.Engine.LadderOrders,
		ResubmitAfterCancel: c.Engine.ResubmitAfterCancel,
		MaxResubmits:        c.Engine.MaxResubmits,
		MinLiquidity:        decimal.NewFromFloat(c.Engine.MinLiquidity),
		MaxSpread:           decimal.NewFromFloat(c.Engine.MaxSpread),
		ScanIntervalSeconds: c.Engine.ScanIntervalSeconds,
		DailyLossLimit:      decimal.NewFromFloat(c.Engine.DailyLossLimit),
		AutoExecute:         c.Engine.AutoExecute,
		RealTradingMode:     c.Engine.RealTradingMode,
	}
}

// LadderSpread returns the ladder price spread as a decimal percent.
func (c *Config) LadderSpread() decimal.Decimal {
	if c.Engine.LadderSpreadPercent <= 0 {
		return decimal.NewFromInt(2)
	}
	return decimal.NewFromFloat(c.Engine.LadderSpreadPercent)
}

// FillCheckInterval returns the fill detection cadence.
func (c *Config) FillCheckInterval() time.Duration {
	return time.Duration(c.Engine.FillCheckSeconds) * time.Second
}

// OrderManageInterval returns the expiry sweep cadence.
func (c *Config) OrderManageInterval() time.Duration {
	return time.Duration(c.Engine.OrderManageSeconds) * time.Second
}

// PriceRefreshInterval returns the position refresh cadence.
func (c *Config) PriceRefreshInterval() time.Duration {
	return time.Duration(c.Engine.PriceRefreshSeconds) * time.Second
}

// ShutdownTimeout returns the shutdown timeout duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Shutdown.TimeoutSec) * time.Second
}

// IsAlertEventEnabled checks if an alert event type is enabled.
func (c *Config) IsAlertEventEnabled(event string) bool {
	if !c.Alerting.Enabled {
		return false
	}
	// If no events specified, all are enabled
	if len(c.Alerting.Events) == 0 {
		return true
	}
	for _, e := range c.Alerting.Events {
		if e == event || e == "all" {
			return true
		}
	}
	return false
}
