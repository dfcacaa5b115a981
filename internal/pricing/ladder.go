package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// fixedWeights is the size distribution for ladders of up to three tiers.
// The first tier sits closest to the market and carries the most size.
var fixedWeights = []decimal.Decimal{
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("0.3"),
	decimal.RequireFromString("0.2"),
}

// BuildLadder splits totalSize into staggered price tiers below the
// recommended price. Tier prices fan out linearly across priceSpreadPercent;
// each tier's discount is recomputed against the current market price. Any
// rounding remainder from the weight split lands on the first tier so the
// tier sizes sum to totalSize exactly.
func BuildLadder(totalSize decimal.Decimal, opt types.OptimalPrice, tierCount int, priceSpreadPercent decimal.Decimal) (types.OrderLadder, error) {
	if !totalSize.IsPositive() {
		return types.OrderLadder{}, fmt.Errorf("total size %s: %w", totalSize, types.ErrInvalidSize)
	}
	if tierCount < 1 {
		return types.OrderLadder{}, fmt.Errorf("tier count %d: %w", tierCount, types.ErrInvalidSize)
	}
	if priceSpreadPercent.IsNegative() {
		return types.OrderLadder{}, fmt.Errorf("price spread %s: %w", priceSpreadPercent, types.ErrInvalidDiscount)
	}

	weights := tierWeights(tierCount)

	ladder := types.OrderLadder{
		MarketID:  opt.MarketID,
		Side:      opt.Side,
		TotalSize: totalSize,
		Tiers:     make([]types.LadderTier, tierCount),
	}

	allocated := decimal.Zero
	for i := 0; i < tierCount; i++ {
		price := tierPrice(opt.RecommendedPrice, i, tierCount, priceSpreadPercent)

		size := totalSize.Mul(weights[i]).Round(2)
		allocated = allocated.Add(size)

		ladder.Tiers[i] = types.LadderTier{
			Price:    price,
			Size:     size,
			Discount: discountVersus(opt.CurrentPrice, price),
		}
	}

	// Reconcile the rounding remainder into the first tier. This keeps the
	// sum-equals-total invariant exact rather than approximately true.
	remainder := totalSize.Sub(allocated)
	if !remainder.IsZero() {
		ladder.Tiers[0].Size = ladder.Tiers[0].Size.Add(remainder)
	}

	return ladder, nil
}

// tierWeights returns the size weights for a ladder of n tiers. Up to three
// tiers use the fixed distribution (renormalized for shorter ladders); wider
// ladders split equally.
func tierWeights(n int) []decimal.Decimal {
	if n > len(fixedWeights) {
		equal := one.Div(decimal.NewFromInt(int64(n)))
		weights := make([]decimal.Decimal, n)
		for i := range weights {
			weights[i] = equal
		}
		return weights
	}

	prefix := fixedWeights[:n]
	total := decimal.Zero
	for _, w := range prefix {
		total = total.Add(w)
	}

	weights := make([]decimal.Decimal, n)
	for i, w := range prefix {
		weights[i] = w.Div(total)
	}
	return weights
}

// tierPrice offsets the base price linearly: tier 0 sits at the recommended
// price, the last tier the full spread below it.
func tierPrice(base decimal.Decimal, index, count int, spreadPercent decimal.Decimal) decimal.Decimal {
	if count > 1 && index > 0 {
		fraction := decimal.NewFromInt(int64(index)).Div(decimal.NewFromInt(int64(count - 1)))
		offset := spreadPercent.Mul(fraction).Div(hundred)
		base = base.Mul(one.Sub(offset))
	}
	return clamp(base, minPrice, maxPrice)
}

// discountVersus recomputes a tier's discount relative to the live market
// price, preserving per-tier accuracy.
func discountVersus(currentPrice, tierPrice decimal.Decimal) decimal.Decimal {
	if !currentPrice.IsPositive() {
		return decimal.Zero
	}
	return currentPrice.Sub(tierPrice).Div(currentPrice).Mul(hundred)
}
