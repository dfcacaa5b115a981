// Package depth analyzes order-book liquidity, spread, and level depth.
package depth

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// topLevels is how many price levels per side count toward volume and depth.
const topLevels = 10

var (
	liqHigh = decimal.NewFromInt(5000)
	liqMid  = decimal.NewFromInt(2000)
	liqLow  = decimal.NewFromInt(1000)

	spreadTight = decimal.NewFromInt(2)
	spreadOK    = decimal.NewFromInt(5)

	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Analyze computes depth metrics for one side of a market from a raw book
// snapshot. Pure computation: the input is not mutated and nothing is cached.
// Returns ErrDataUnavailable when either side of the book is empty.
func Analyze(book types.OrderBook) (types.OrderBookDepth, error) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return types.OrderBookDepth{}, fmt.Errorf("market %s %s: %w",
			book.MarketID, book.Side, types.ErrDataUnavailable)
	}

	bids := sortedCopy(book.Bids, true)
	asks := sortedCopy(book.Asks, false)

	bestBid := bids[0].Price
	bestAsk := asks[0].Price
	spread := bestAsk.Sub(bestBid)
	mid := bestBid.Add(bestAsk).Div(two)

	var spreadPct decimal.Decimal
	if mid.IsPositive() {
		spreadPct = spread.Div(mid).Mul(hundred)
	}

	topBids := bids[:minInt(len(bids), topLevels)]
	topAsks := asks[:minInt(len(asks), topLevels)]

	d := types.OrderBookDepth{
		MarketID:       book.MarketID,
		Side:           book.Side,
		BestBid:        bestBid,
		BestAsk:        bestAsk,
		Spread:         spread,
		SpreadPercent:  spreadPct,
		BidDepth:       len(topBids),
		AskDepth:       len(topAsks),
		TotalBidVolume: sumVolume(topBids),
		TotalAskVolume: sumVolume(topAsks),
		Liquidity:      sumNotional(topBids).Add(sumNotional(topAsks)),
	}
	d.DepthScore = scoreDepth(d)

	return d, nil
}

// scoreDepth rates a book 0..10 from liquidity, spread tightness, and level
// count. Each dimension contributes its highest matching tier only, so the
// score is monotone in liquidity with the other inputs fixed.
func scoreDepth(d types.OrderBookDepth) int {
	score := 0

	switch {
	case d.Liquidity.GreaterThanOrEqual(liqHigh):
		score += 3
	case d.Liquidity.GreaterThanOrEqual(liqMid):
		score += 2
	case d.Liquidity.GreaterThanOrEqual(liqLow):
		score += 1
	}

	switch {
	case d.SpreadPercent.LessThan(spreadTight):
		score += 2
	case d.SpreadPercent.LessThan(spreadOK):
		score += 1
	}

	levels := minInt(d.BidDepth, d.AskDepth)
	switch {
	case levels >= 8:
		score += 2
	case levels >= 5:
		score += 1
	}

	if score > 10 {
		score = 10
	}
	return score
}

// sortedCopy returns the levels sorted by price, descending for bids and
// ascending for asks, without touching the caller's slice.
func sortedCopy(levels []types.BookLevel, descending bool) []types.BookLevel {
	out := make([]types.BookLevel, len(levels))
	copy(out, levels)
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

func sumVolume(levels []types.BookLevel) decimal.Decimal {
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Size)
	}
	return total
}

// sumNotional is the USD value of the levels (price × size).
func sumNotional(levels []types.BookLevel) decimal.Decimal {
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Price.Mul(l.Size))
	}
	return total
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
