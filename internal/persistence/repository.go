// Package persistence provides durable state for orders, positions and
// engine recovery.
package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// Repository defines the interface for state persistence.
type Repository interface {
	// Order operations
	SaveOrder(ctx context.Context, order types.Order) error
	GetPendingOrders(ctx context.Context) ([]types.Order, error)
	UpdateOrderStatus(ctx context.Context, clientOrderID string, status types.OrderStatus, fillPrice decimal.Decimal) error

	// Position operations
	SavePosition(ctx context.Context, position types.Position) error
	GetOpenPositions(ctx context.Context) ([]types.Position, error)
	ClosePosition(ctx context.Context, positionID string, closedAt time.Time) error

	// Engine state for restart recovery
	SaveEngineState(ctx context.Context, state EngineState) error
	GetEngineState(ctx context.Context) (*EngineState, error)

	// Daily summaries
	UpsertDailySummary(ctx context.Context, summary DailySummary) error
	GetDailySummary(ctx context.Context, day string) (*DailySummary, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// EngineState is the persisted engine snapshot used to resume after a restart.
type EngineState struct {
	ID                int64
	LastUpdated       time.Time
	IsRunning         bool
	DailyLimitReached bool
	TodayStartPnL     decimal.Decimal
	BaselineDay       string // local day of the PnL baseline, "2006-01-02"
	TotalPnL          decimal.Decimal
}

// DailySummary aggregates one local trading day.
type DailySummary struct {
	Day             string // "2006-01-02"
	OrdersPlaced    int
	OrdersFilled    int
	OrdersExpired   int
	OrdersCancelled int
	RealizedPnL     decimal.Decimal
}
