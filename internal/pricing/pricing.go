// Package pricing computes optimal snipe discounts, limit prices, and order
// ladders from order-book depth metrics.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

var (
	one         = decimal.NewFromInt(1)
	two         = decimal.NewFromInt(2)
	three       = decimal.NewFromInt(3)
	five        = decimal.NewFromInt(5)
	six         = decimal.NewFromInt(6)
	fifteen     = decimal.NewFromInt(15)
	hundred     = decimal.NewFromInt(100)
	thousand    = decimal.NewFromInt(1000)
	twoThousand = decimal.NewFromInt(2000)

	half        = decimal.RequireFromString("0.5")
	threeHalves = decimal.RequireFromString("1.5")
	highBand    = decimal.RequireFromString("0.70")
	lowBand     = decimal.RequireFromString("0.30")
	minPrice    = decimal.RequireFromString("0.01")
	maxPrice    = decimal.RequireFromString("0.99")
)

const (
	baselineFillTime = 30 * time.Minute
	quickFillTime    = 15 * time.Minute
	slowFillTime     = 60 * time.Minute
)

// Request carries the inputs for one optimal-price computation.
type Request struct {
	MarketID         string
	Side             types.Side
	CurrentPrice     decimal.Decimal
	TargetDiscount   decimal.Decimal // percent baseline
	MinProfitPercent decimal.Decimal // recorded for the audit trail
	Depth            types.OrderBookDepth
}

// Compute derives the optimal discount and limit price for a snipe order.
// The result is immutable and always carries a human-readable Reasoning
// string summarizing the scoring inputs.
func Compute(req Request) types.OptimalPrice {
	base := clamp(req.TargetDiscount, one, fifteen)
	discount := base

	var notes []string

	// Penalties widen the discount when the book looks unfavorable.
	if req.Depth.SpreadPercent.GreaterThan(five) {
		discount = discount.Add(one)
		notes = append(notes, "wide spread +1")
	}
	if req.Depth.DepthScore < 4 {
		discount = discount.Add(threeHalves)
		notes = append(notes, "shallow depth +1.5")
	}
	if req.Depth.Liquidity.LessThan(thousand) {
		discount = discount.Add(one)
		notes = append(notes, "low liquidity +1")
	}

	// Penalties may move the discount at most 3 points above the target and
	// never more than 1 below it.
	discount = clamp(discount, clamp(base.Sub(one), one, fifteen), clamp(base.Add(three), one, fifteen))

	// Price-band adjustment: near-certain outcomes (>0.70) get extra cushion,
	// longshots (<0.30) fill on a narrower discount.
	switch {
	case req.CurrentPrice.GreaterThan(highBand):
		discount = discount.Add(half)
		notes = append(notes, "high band +0.5")
	case req.CurrentPrice.LessThan(lowBand):
		discount = discount.Sub(half)
		notes = append(notes, "low band -0.5")
	}
	discount = clamp(discount, one, fifteen)

	recommended := req.CurrentPrice.Mul(one.Sub(discount.Div(hundred)))
	recommended = clamp(recommended, minPrice, maxPrice)

	fillTime := expectedFillTime(discount, req.Depth.DepthScore)
	confidence := confidenceFor(req.Depth)

	reasoning := fmt.Sprintf(
		"target %s%% -> discount %s%% [%s]; book: depth %d/10, spread %s%%, liquidity $%s; min profit %s%%; est fill %s, confidence %d",
		base.StringFixed(1),
		discount.StringFixed(1),
		noteSummary(notes),
		req.Depth.DepthScore,
		req.Depth.SpreadPercent.StringFixed(2),
		req.Depth.Liquidity.StringFixed(0),
		req.MinProfitPercent.StringFixed(1),
		fillTime,
		confidence,
	)

	return types.OptimalPrice{
		MarketID:         req.MarketID,
		Side:             req.Side,
		CurrentPrice:     req.CurrentPrice,
		RecommendedPrice: recommended,
		Discount:         discount,
		ExpectedFillTime: fillTime,
		Confidence:       confidence,
		Reasoning:        reasoning,
	}
}

// expectedFillTime estimates time to fill from discount size and book depth.
func expectedFillTime(discount decimal.Decimal, depthScore int) time.Duration {
	estimate := baselineFillTime
	if discount.LessThan(three) {
		estimate = quickFillTime
	} else if discount.GreaterThan(six) {
		estimate = slowFillTime
	}

	switch {
	case depthScore >= 7:
		estimate = time.Duration(float64(estimate) * 0.7)
	case depthScore < 4:
		estimate = time.Duration(float64(estimate) * 1.5)
	}
	return estimate
}

// confidenceFor maps book quality onto a four-tier 0..100 heuristic.
func confidenceFor(d types.OrderBookDepth) int {
	switch {
	case d.DepthScore >= 7 && d.SpreadPercent.LessThan(two) && d.Liquidity.GreaterThanOrEqual(twoThousand):
		return 85
	case d.DepthScore >= 5 && d.SpreadPercent.LessThan(five) && d.Liquidity.GreaterThanOrEqual(thousand):
		return 70
	case d.DepthScore >= 3:
		return 50
	default:
		return 30
	}
}

func noteSummary(notes []string) string {
	if len(notes) == 0 {
		return "no penalties"
	}
	return strings.Join(notes, ", ")
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
