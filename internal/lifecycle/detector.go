package lifecycle

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// fillTolerance absorbs quoting noise: a buy-style discount order is deemed
// filled once the market trades at or through limit × 1.005.
var fillTolerance = decimal.RequireFromString("1.005")

// PriceReader polls the live outcome price for one market side.
type PriceReader interface {
	GetPrice(ctx context.Context, marketID string, side types.Side) (decimal.Decimal, error)
}

// FillDetector infers fills for pending orders by polling market prices.
// Pure polling by contract: downstream cadence and tolerance assumptions
// depend on it, so it must never be swapped for a push subscription.
type FillDetector struct {
	prices PriceReader
	clock  types.Clock
	logger *slog.Logger
}

// NewFillDetector creates a fill detector over a price reader.
func NewFillDetector(prices PriceReader, clock types.Clock, logger *slog.Logger) *FillDetector {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FillDetector{prices: prices, clock: clock, logger: logger}
}

// Check polls each pending order's market and reports the ones whose price
// has crossed the limit. A query failure marks only that order as not filled
// this tick; the rest of the batch proceeds.
func (d *FillDetector) Check(ctx context.Context, pending []types.Order) []types.FillResult {
	var fills []types.FillResult

	for _, o := range pending {
		price, err := d.prices.GetPrice(ctx, o.MarketID, o.Side)
		if err != nil {
			d.logger.Debug("fill check skipped",
				"order_id", o.ID,
				"market", o.MarketID,
				"err", err,
			)
			continue
		}

		threshold := o.LimitPrice.Mul(fillTolerance)
		if price.GreaterThan(threshold) {
			continue
		}

		fills = append(fills, types.FillResult{
			OrderID:   o.ID,
			FillPrice: price,
			FillSize:  o.Size,
			FilledAt:  d.clock.Now(),
		})
	}

	return fills
}
