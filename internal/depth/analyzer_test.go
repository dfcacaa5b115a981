package depth

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

func level(price, size string) types.BookLevel {
	return types.BookLevel{
		Price: decimal.RequireFromString(price),
		Size:  decimal.RequireFromString(size),
	}
}

// book builds a symmetric test book with n levels per side around 0.50.
func book(n int, sizePerLevel string) types.OrderBook {
	b := types.OrderBook{MarketID: "mkt-1", Side: types.SideYes}
	for i := 0; i < n; i++ {
		bidPrice := decimal.RequireFromString("0.49").Sub(decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(100)))
		askPrice := decimal.RequireFromString("0.51").Add(decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(100)))
		size := decimal.RequireFromString(sizePerLevel)
		b.Bids = append(b.Bids, types.BookLevel{Price: bidPrice, Size: size})
		b.Asks = append(b.Asks, types.BookLevel{Price: askPrice, Size: size})
	}
	return b
}

func TestAnalyze_EmptyBook(t *testing.T) {
	tests := []struct {
		name string
		book types.OrderBook
	}{
		{"no bids", types.OrderBook{Asks: []types.BookLevel{level("0.51", "100")}}},
		{"no asks", types.OrderBook{Bids: []types.BookLevel{level("0.49", "100")}}},
		{"empty", types.OrderBook{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.book)
			if !errors.Is(err, types.ErrDataUnavailable) {
				t.Errorf("Analyze() error = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

func TestAnalyze_SortsUnorderedLevels(t *testing.T) {
	b := types.OrderBook{
		MarketID: "mkt-1",
		Bids:     []types.BookLevel{level("0.45", "10"), level("0.49", "10"), level("0.47", "10")},
		Asks:     []types.BookLevel{level("0.55", "10"), level("0.51", "10"), level("0.53", "10")},
	}

	d, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !d.BestBid.Equal(decimal.RequireFromString("0.49")) {
		t.Errorf("BestBid = %s, want 0.49", d.BestBid)
	}
	if !d.BestAsk.Equal(decimal.RequireFromString("0.51")) {
		t.Errorf("BestAsk = %s, want 0.51", d.BestAsk)
	}
	if !d.Spread.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("Spread = %s, want 0.02", d.Spread)
	}
}

func TestAnalyze_SpreadPercent(t *testing.T) {
	b := types.OrderBook{
		MarketID: "mkt-1",
		Bids:     []types.BookLevel{level("0.49", "100")},
		Asks:     []types.BookLevel{level("0.51", "100")},
	}

	d, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// spread 0.02 at mid 0.50 → 4%
	if !d.SpreadPercent.Equal(decimal.NewFromInt(4)) {
		t.Errorf("SpreadPercent = %s, want 4", d.SpreadPercent)
	}
}

func TestAnalyze_TopTenOnly(t *testing.T) {
	b := book(15, "100")

	d, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if d.BidDepth != 10 || d.AskDepth != 10 {
		t.Errorf("depth counts = %d/%d, want 10/10", d.BidDepth, d.AskDepth)
	}
	if !d.TotalBidVolume.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalBidVolume = %s, want 1000 (10 levels × 100)", d.TotalBidVolume)
	}
}

func TestScoreDepth_Bounds(t *testing.T) {
	// Deep, tight, liquid book should land at the top of the range.
	d, err := Analyze(book(10, "2000"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if d.DepthScore < 0 || d.DepthScore > 10 {
		t.Errorf("DepthScore = %d, outside [0,10]", d.DepthScore)
	}
	if d.DepthScore < 5 {
		t.Errorf("DepthScore = %d for a deep liquid book, want >= 5", d.DepthScore)
	}

	// Thin, wide book scores near the bottom.
	thin := types.OrderBook{
		Bids: []types.BookLevel{level("0.30", "1")},
		Asks: []types.BookLevel{level("0.70", "1")},
	}
	dThin, err := Analyze(thin)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if dThin.DepthScore != 0 {
		t.Errorf("DepthScore = %d for thin wide book, want 0", dThin.DepthScore)
	}
}

func TestScoreDepth_MonotoneInLiquidity(t *testing.T) {
	sizes := []string{"1", "50", "200", "500", "2000", "10000"}
	prev := -1
	for _, size := range sizes {
		d, err := Analyze(book(10, size))
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if d.DepthScore < prev {
			t.Errorf("DepthScore decreased to %d at size %s (prev %d)", d.DepthScore, size, prev)
		}
		prev = d.DepthScore
	}
}

func TestScoreDepth_LiquidityTiers(t *testing.T) {
	tests := []struct {
		liquidity string
		want      int
	}{
		{"6000", 3},
		{"5000", 3},
		{"2500", 2},
		{"1000", 1},
		{"999", 0},
	}

	for _, tt := range tests {
		d := types.OrderBookDepth{
			Liquidity:     decimal.RequireFromString(tt.liquidity),
			SpreadPercent: decimal.NewFromInt(20), // no spread contribution
			BidDepth:      1,
			AskDepth:      1,
		}
		if got := scoreDepth(d); got != tt.want {
			t.Errorf("scoreDepth(liquidity=%s) = %d, want %d", tt.liquidity, got, tt.want)
		}
	}
}
