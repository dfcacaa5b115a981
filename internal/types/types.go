// Package types defines shared types used across the snipe engine.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the outcome side of a binary market.
type Side int

const (
	SideYes Side = iota
	SideNo
)

func (s Side) String() string {
	switch s {
	case SideYes:
		return "YES"
	case SideNo:
		return "NO"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposite outcome side.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// OrderStatus represents the state of a snipe order.
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusFilled
	OrderStatusCancelled
	OrderStatusExpired
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "PENDING"
	case OrderStatusFilled:
		return "FILLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	case OrderStatusExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// IsFinal returns true if the order is in a terminal state.
// Terminal orders are never mutated again.
func (s OrderStatus) IsFinal() bool {
	return s != OrderStatusPending
}

// Market is a snapshot of a binary prediction market.
type Market struct {
	ID        string
	Title     string
	YesPrice  decimal.Decimal // implied probability of YES, 0..1
	NoPrice   decimal.Decimal
	Liquidity decimal.Decimal // USD
	Volume24h decimal.Decimal
	EndDate   time.Time
}

// Price returns the current outcome price for a side.
func (m Market) Price(side Side) decimal.Decimal {
	if side == SideYes {
		return m.YesPrice
	}
	return m.NoPrice
}

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal // shares at this level
}

// OrderBook is a raw bid/ask ladder snapshot for one market side.
type OrderBook struct {
	MarketID string
	Side     Side
	Bids     []BookLevel
	Asks     []BookLevel
}

// OrderBookDepth carries derived depth metrics for one market side.
// Computed per query, never persisted.
type OrderBookDepth struct {
	MarketID       string
	Side           Side
	BestBid        decimal.Decimal
	BestAsk        decimal.Decimal
	Spread         decimal.Decimal
	SpreadPercent  decimal.Decimal
	BidDepth       int // levels counted, top 10
	AskDepth       int
	TotalBidVolume decimal.Decimal
	TotalAskVolume decimal.Decimal
	Liquidity      decimal.Decimal // USD across top 10 levels, both sides
	DepthScore     int             // 0..10
}

// OptimalPrice is the pricing engine output. Immutable once computed.
type OptimalPrice struct {
	MarketID         string
	Side             Side
	CurrentPrice     decimal.Decimal
	RecommendedPrice decimal.Decimal // clamped to [0.01, 0.99]
	Discount         decimal.Decimal // percent below current price
	ExpectedFillTime time.Duration
	Confidence       int    // 0..100
	Reasoning        string // audit trail of the scoring inputs
}

// Opportunity is a snipeable market side produced by the scanner.
type Opportunity struct {
	Market        Market
	Side          Side
	Depth         OrderBookDepth
	Pricing       OptimalPrice
	ImpliedProfit decimal.Decimal // percent, current vs recommended
	ScannedAt     time.Time
}

// Order is a snipe limit order tracked by the lifecycle manager.
type Order struct {
	ID                     string
	ClientOrderID          string // idempotency key for persistence
	MarketID               string
	MarketTitle            string
	Side                   Side
	LimitPrice             decimal.Decimal
	CurrentPriceAtCreation decimal.Decimal
	Discount               decimal.Decimal
	Size                   decimal.Decimal // USD
	Status                 OrderStatus
	CreatedAt              time.Time
	FilledAt               *time.Time
	FillPrice              decimal.Decimal
	LadderIndex            int // -1 when not part of a ladder
	ResubmitCount          int
}

// LadderTier is one rung of an order ladder.
type LadderTier struct {
	Price    decimal.Decimal
	Size     decimal.Decimal
	Discount decimal.Decimal
}

// OrderLadder splits one intended position into staggered tiers.
// Tier sizes always sum to TotalSize exactly.
type OrderLadder struct {
	MarketID  string
	Side      Side
	TotalSize decimal.Decimal
	Tiers     []LadderTier
}

// FillResult reports a detected fill for a pending order.
type FillResult struct {
	OrderID   string
	FillPrice decimal.Decimal
	FillSize  decimal.Decimal
	FilledAt  time.Time
}

// Position is an open position created from a filled order.
type Position struct {
	ID           string
	MarketID     string
	MarketTitle  string
	Side         Side
	EntryPrice   decimal.Decimal // actual fill price, not the limit
	CurrentPrice decimal.Decimal
	Size         decimal.Decimal // USD at entry
	PnL          decimal.Decimal
	PnLPercent   decimal.Decimal
	OpenedAt     time.Time
}

// EngineSettings is the process-wide engine configuration.
// Mutated only through Engine.UpdateSettings; loops read a snapshot per tick.
type EngineSettings struct {
	MinProfitPercent    decimal.Decimal
	TargetDiscount      decimal.Decimal
	MaxPositionSize     decimal.Decimal
	TimeoutMinutes      int
	MaxConcurrentOrders int
	EnableLaddering     bool
	LadderOrders        int
	ResubmitAfterCancel bool
	MaxResubmits        int
	MinLiquidity        decimal.Decimal
	MaxSpread           decimal.Decimal // implied-probability spread ceiling
	ScanIntervalSeconds int
	DailyLossLimit      decimal.Decimal
	AutoExecute         bool
	RealTradingMode     bool // requires manual confirmation, disables auto-execute
}

// DefaultSettings returns conservative engine defaults.
func DefaultSettings() EngineSettings {
	return EngineSettings{
		MinProfitPercent:    decimal.RequireFromString("2"),
		TargetDiscount:      decimal.RequireFromString("3"),
		MaxPositionSize:     decimal.RequireFromString("100"),
		TimeoutMinutes:      60,
		MaxConcurrentOrders: 5,
		EnableLaddering:     false,
		LadderOrders:        3,
		ResubmitAfterCancel: false,
		MaxResubmits:        2,
		MinLiquidity:        decimal.RequireFromString("1000"),
		MaxSpread:           decimal.RequireFromString("0.10"),
		ScanIntervalSeconds: 30,
		DailyLossLimit:      decimal.RequireFromString("50"),
		AutoExecute:         false,
		RealTradingMode:     false,
	}
}

// ScanInterval returns the scan cadence as a duration.
func (s EngineSettings) ScanInterval() time.Duration {
	return time.Duration(s.ScanIntervalSeconds) * time.Second
}

// OrderTimeout returns the pending-order expiry threshold.
func (s EngineSettings) OrderTimeout() time.Duration {
	return time.Duration(s.TimeoutMinutes) * time.Minute
}

// RiskState is the risk guard's externally visible state.
type RiskState struct {
	IsRunning           bool
	IsDailyLimitReached bool
	TodayStartPnL       decimal.Decimal
}

// ResubmitRequest asks the scan path to re-price and replace an expired order.
// The replacement is priced at the current market, not the stale limit.
type ResubmitRequest struct {
	MarketID      string
	Side          Side
	Size          decimal.Decimal
	ResubmitCount int // count carried onto the replacement order
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }
