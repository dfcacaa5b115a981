// Package scanner ranks candidate markets into snipeable opportunities.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/depth"
	"github.com/owade/polysniper/internal/pricing"
	"github.com/owade/polysniper/internal/types"
)

// maxOpportunities bounds downstream order placement: quality over quantity.
const maxOpportunities = 10

// minDepthScore is the floor below which a book is not worth sniping.
const minDepthScore = 3

// minConfidence rejects opportunities the pricing engine distrusts.
const minConfidence = 40

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MarketSource is the read-only market-data surface the scanner consumes.
type MarketSource interface {
	ListMarkets(ctx context.Context) ([]types.Market, error)
	GetOrderBook(ctx context.Context, marketID string, side types.Side) (types.OrderBook, error)
}

// Scanner scores both outcome sides of every candidate market.
type Scanner struct {
	source MarketSource
	clock  types.Clock
	logger *slog.Logger
}

// New creates a scanner over a market source.
func New(source MarketSource, clock types.Clock, logger *slog.Logger) *Scanner {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{source: source, clock: clock, logger: logger}
}

// Scan ranks the market universe into at most ten opportunities, sorted by
// confidence. It short-circuits to an empty result when the engine already
// holds the maximum number of concurrent orders. Per-market failures are
// isolated: one bad market never aborts the scan.
func (s *Scanner) Scan(ctx context.Context, settings types.EngineSettings, pendingOrders int) ([]types.Opportunity, error) {
	if pendingOrders >= settings.MaxConcurrentOrders {
		s.logger.Debug("scan skipped: order slots full",
			"pending", pendingOrders,
			"max", settings.MaxConcurrentOrders,
		)
		return nil, nil
	}

	markets, err := s.source.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}

	var opps []types.Opportunity
	for _, m := range markets {
		// Cheap filters first: skip the cost of two book queries for markets
		// that cannot qualify.
		if m.Liquidity.LessThan(settings.MinLiquidity) {
			continue
		}
		impliedSpread := m.YesPrice.Add(m.NoPrice).Sub(one).Abs()
		if impliedSpread.GreaterThan(settings.MaxSpread) {
			continue
		}

		for _, side := range []types.Side{types.SideYes, types.SideNo} {
			opp, err := s.evaluateSide(ctx, m, side, settings)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrOpportunityRejected):
					// Below thresholds, not an error.
				case errors.Is(err, types.ErrDataUnavailable):
					s.logger.Debug("market side skipped: no book data",
						"market", m.ID, "side", side)
				default:
					s.logger.Warn("market side skipped",
						"market", m.ID, "side", side, "err", err)
				}
				continue
			}
			opps = append(opps, opp)
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Pricing.Confidence > opps[j].Pricing.Confidence
	})
	if len(opps) > maxOpportunities {
		opps = opps[:maxOpportunities]
	}

	s.logger.Info("scan complete",
		"markets", len(markets),
		"opportunities", len(opps),
	)
	return opps, nil
}

// evaluateSide runs the depth analyzer and pricing engine for one outcome
// side and applies the quality gates.
func (s *Scanner) evaluateSide(ctx context.Context, m types.Market, side types.Side, settings types.EngineSettings) (types.Opportunity, error) {
	book, err := s.source.GetOrderBook(ctx, m.ID, side)
	if err != nil {
		return types.Opportunity{}, fmt.Errorf("get order book: %w", err)
	}

	d, err := depth.Analyze(book)
	if err != nil {
		return types.Opportunity{}, err
	}

	if d.DepthScore < minDepthScore || d.Liquidity.LessThan(settings.MinLiquidity) {
		return types.Opportunity{}, fmt.Errorf("depth %d liquidity %s: %w",
			d.DepthScore, d.Liquidity.StringFixed(0), types.ErrOpportunityRejected)
	}

	current := m.Price(side)
	if !current.IsPositive() {
		return types.Opportunity{}, fmt.Errorf("price %s: %w", current, types.ErrInvalidPrice)
	}

	opt := pricing.Compute(pricing.Request{
		MarketID:         m.ID,
		Side:             side,
		CurrentPrice:     current,
		TargetDiscount:   settings.TargetDiscount,
		MinProfitPercent: settings.MinProfitPercent,
		Depth:            d,
	})

	if opt.Confidence < minConfidence {
		return types.Opportunity{}, fmt.Errorf("confidence %d: %w",
			opt.Confidence, types.ErrOpportunityRejected)
	}

	profit := impliedProfit(current, opt.RecommendedPrice)
	if profit.LessThan(settings.MinProfitPercent) {
		return types.Opportunity{}, fmt.Errorf("implied profit %s%%: %w",
			profit.StringFixed(2), types.ErrOpportunityRejected)
	}

	return types.Opportunity{
		Market:        m,
		Side:          side,
		Depth:         d,
		Pricing:       opt,
		ImpliedProfit: profit,
		ScannedAt:     s.clock.Now(),
	}, nil
}

// impliedProfit is the percentage gained if a fill at the recommended price
// reverts to the pre-snipe market price.
func impliedProfit(current, recommended decimal.Decimal) decimal.Decimal {
	if !recommended.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(recommended).Div(recommended).Mul(hundred)
}
