// Package market defines the market-data port and a simulated venue for
// paper runs and tests.
package market

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// Client is the read-only market-data surface the engine consumes.
// Snapshot semantics: a failed call returns an error, never partial data.
type Client interface {
	// ListMarkets returns the current market universe.
	ListMarkets(ctx context.Context) ([]types.Market, error)

	// GetMarket returns one market by id.
	GetMarket(ctx context.Context, marketID string) (types.Market, error)

	// GetOrderBook returns the raw bid/ask ladder for one outcome side.
	GetOrderBook(ctx context.Context, marketID string, side types.Side) (types.OrderBook, error)

	// GetPrice returns the live outcome price for one side.
	GetPrice(ctx context.Context, marketID string, side types.Side) (decimal.Decimal, error)
}

// PriceSource evolves an outcome price between polls. The simulated venue
// uses a random walk; tests plug in deterministic sources.
type PriceSource interface {
	Next(current decimal.Decimal) decimal.Decimal
}
