package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

type fakePrices struct {
	prices map[string]decimal.Decimal // marketID -> price
	errs   map[string]error
	calls  int
}

func (f *fakePrices) GetPrice(_ context.Context, marketID string, _ types.Side) (decimal.Decimal, error) {
	f.calls++
	if err, ok := f.errs[marketID]; ok {
		return decimal.Zero, err
	}
	p, ok := f.prices[marketID]
	if !ok {
		return decimal.Zero, types.ErrMarketNotFound
	}
	return p, nil
}

func orderAt(marketID, limit string) types.Order {
	return types.Order{
		ID:         "ord-" + marketID,
		MarketID:   marketID,
		Side:       types.SideYes,
		LimitPrice: decimal.RequireFromString(limit),
		Size:       decimal.RequireFromString("50"),
		Status:     types.OrderStatusPending,
	}
}

func TestFillDetector_Tolerance(t *testing.T) {
	tests := []struct {
		name   string
		limit  string
		market string
		filled bool
	}{
		{"price below limit", "0.58", "0.57", true},
		{"price at limit", "0.58", "0.58", true},
		{"within half-percent tolerance", "0.58", "0.5829", true},
		{"just past tolerance", "0.58", "0.584", false},
		{"far above limit", "0.58", "0.60", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := &fakePrices{prices: map[string]decimal.Decimal{
				"mkt-1": decimal.RequireFromString(tt.market),
			}}
			clk := &fakeClock{now: time.Now()}
			d := NewFillDetector(prices, clk, nil)

			fills := d.Check(context.Background(), []types.Order{orderAt("mkt-1", tt.limit)})

			if got := len(fills) == 1; got != tt.filled {
				t.Fatalf("filled = %v, want %v (limit %s, market %s)", got, tt.filled, tt.limit, tt.market)
			}
			if tt.filled {
				if !fills[0].FillPrice.Equal(decimal.RequireFromString(tt.market)) {
					t.Errorf("FillPrice = %s, want observed price %s", fills[0].FillPrice, tt.market)
				}
				if !fills[0].FillSize.Equal(decimal.RequireFromString("50")) {
					t.Errorf("FillSize = %s, want order size", fills[0].FillSize)
				}
				if fills[0].FilledAt.IsZero() {
					t.Error("FilledAt must be set")
				}
			}
		})
	}
}

func TestFillDetector_FailureIsolation(t *testing.T) {
	prices := &fakePrices{
		prices: map[string]decimal.Decimal{
			"mkt-good": decimal.RequireFromString("0.55"),
		},
		errs: map[string]error{
			"mkt-bad": errors.New("connection reset"),
		},
	}
	clk := &fakeClock{now: time.Now()}
	d := NewFillDetector(prices, clk, nil)

	pending := []types.Order{
		orderAt("mkt-bad", "0.58"),
		orderAt("mkt-good", "0.58"),
	}

	fills := d.Check(context.Background(), pending)

	if len(fills) != 1 {
		t.Fatalf("fills = %d, want 1 (failure must not abort the batch)", len(fills))
	}
	if fills[0].OrderID != "ord-mkt-good" {
		t.Errorf("filled order = %s, want ord-mkt-good", fills[0].OrderID)
	}
	if prices.calls != 2 {
		t.Errorf("price queries = %d, want 2 (every order polled)", prices.calls)
	}
}
