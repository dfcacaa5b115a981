package market

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/owade/polysniper/internal/types"
)

// bookLevels is how many synthetic levels each side of a simulated book has.
const bookLevels = 8

var (
	one  = decimal.NewFromInt(1)
	cent = decimal.RequireFromString("0.01")
)

// SimConfig holds simulated-venue settings.
type SimConfig struct {
	RateLimitPerSecond int
	Seed               int64
}

// DefaultSimConfig returns sensible simulation defaults.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		RateLimitPerSecond: 20,
		Seed:               time.Now().UnixNano(),
	}
}

// SimClient is an in-memory prediction-market venue. Prices evolve through
// the injected PriceSource on every price poll; order books are synthesized
// around the current price. Queries share a rate limiter so simulated runs
// exercise the same throttling as a real venue client.
type SimClient struct {
	mu      sync.Mutex
	markets map[string]*types.Market

	source  PriceSource
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSimClient creates a simulated venue with an empty universe.
func NewSimClient(cfg SimConfig, source PriceSource, logger *slog.Logger) *SimClient {
	if source == nil {
		source = NewRandomWalk(cfg.Seed, 0.01)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = 20
	}
	return &SimClient{
		markets: make(map[string]*types.Market),
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitPerSecond),
		logger:  logger,
	}
}

// AddMarket seeds a market into the universe.
func (c *SimClient) AddMarket(m types.Market) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mkt := m
	c.markets[m.ID] = &mkt
}

// SeedUniverse loads a small built-in market set for paper runs.
func (c *SimClient) SeedUniverse() {
	seeds := []types.Market{
		{ID: "sim-fed-cut", Title: "Fed cuts rates at next meeting", YesPrice: decimal.RequireFromString("0.62"), Liquidity: decimal.NewFromInt(8000), Volume24h: decimal.NewFromInt(25000)},
		{ID: "sim-eth-4k", Title: "ETH above $4k by year end", YesPrice: decimal.RequireFromString("0.45"), Liquidity: decimal.NewFromInt(5200), Volume24h: decimal.NewFromInt(14000)},
		{ID: "sim-election", Title: "Incumbent wins the runoff", YesPrice: decimal.RequireFromString("0.71"), Liquidity: decimal.NewFromInt(12000), Volume24h: decimal.NewFromInt(60000)},
		{ID: "sim-launch", Title: "Starship reaches orbit this quarter", YesPrice: decimal.RequireFromString("0.33"), Liquidity: decimal.NewFromInt(3100), Volume24h: decimal.NewFromInt(9000)},
		{ID: "sim-cpi", Title: "CPI print below 3%", YesPrice: decimal.RequireFromString("0.55"), Liquidity: decimal.NewFromInt(6500), Volume24h: decimal.NewFromInt(18000)},
	}
	for _, m := range seeds {
		m.NoPrice = one.Sub(m.YesPrice)
		m.EndDate = time.Now().Add(30 * 24 * time.Hour)
		c.AddMarket(m)
	}
}

// ListMarkets returns a snapshot of the universe.
func (c *SimClient) ListMarkets(ctx context.Context) ([]types.Market, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.Market, 0, len(c.markets))
	for _, m := range c.markets {
		out = append(out, *m)
	}
	return out, nil
}

// GetMarket returns one market by id.
func (c *SimClient) GetMarket(ctx context.Context, marketID string) (types.Market, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return types.Market{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.markets[marketID]
	if !ok {
		return types.Market{}, fmt.Errorf("market %s: %w", marketID, types.ErrMarketNotFound)
	}
	return *m, nil
}

// GetOrderBook synthesizes a book around the current price: bookLevels
// one-cent steps per side with the market's liquidity spread across them.
func (c *SimClient) GetOrderBook(ctx context.Context, marketID string, side types.Side) (types.OrderBook, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return types.OrderBook{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.markets[marketID]
	if !ok {
		return types.OrderBook{}, fmt.Errorf("market %s: %w", marketID, types.ErrMarketNotFound)
	}

	price := m.Price(side)
	perLevel := m.Liquidity.Div(decimal.NewFromInt(2 * bookLevels))

	book := types.OrderBook{MarketID: marketID, Side: side}
	for i := 1; i <= bookLevels; i++ {
		step := cent.Mul(decimal.NewFromInt(int64(i)))

		bidPrice := clampPrice(price.Sub(step))
		askPrice := clampPrice(price.Add(step))

		book.Bids = append(book.Bids, types.BookLevel{
			Price: bidPrice,
			Size:  perLevel.Div(bidPrice).Round(0),
		})
		book.Asks = append(book.Asks, types.BookLevel{
			Price: askPrice,
			Size:  perLevel.Div(askPrice).Round(0),
		})
	}
	return book, nil
}

// GetPrice advances the outcome price through the price source and returns
// it. The opposite side stays complementary.
func (c *SimClient) GetPrice(ctx context.Context, marketID string, side types.Side) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.markets[marketID]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("market %s: %w", marketID, types.ErrMarketNotFound)
	}

	next := c.source.Next(m.Price(side))
	if side == types.SideYes {
		m.YesPrice = next
		m.NoPrice = one.Sub(next)
	} else {
		m.NoPrice = next
		m.YesPrice = one.Sub(next)
	}
	return next, nil
}
