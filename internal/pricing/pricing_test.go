package pricing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func goodDepth() types.OrderBookDepth {
	return types.OrderBookDepth{
		MarketID:      "mkt-1",
		DepthScore:    8,
		SpreadPercent: dec("1.5"),
		Liquidity:     dec("3000"),
		BidDepth:      10,
		AskDepth:      10,
	}
}

func TestCompute_NoPenalties(t *testing.T) {
	opt := Compute(Request{
		MarketID:         "mkt-1",
		Side:             types.SideYes,
		CurrentPrice:     dec("0.60"),
		TargetDiscount:   dec("3"),
		MinProfitPercent: dec("2"),
		Depth:            goodDepth(),
	})

	if !opt.Discount.Equal(dec("3")) {
		t.Errorf("Discount = %s, want 3", opt.Discount)
	}
	// 0.60 × 0.97 = 0.582
	if !opt.RecommendedPrice.Equal(dec("0.582")) {
		t.Errorf("RecommendedPrice = %s, want 0.582", opt.RecommendedPrice)
	}
	if opt.Confidence != 85 {
		t.Errorf("Confidence = %d, want 85", opt.Confidence)
	}
	if opt.Reasoning == "" {
		t.Error("Reasoning must never be empty")
	}
	if !strings.Contains(opt.Reasoning, "no penalties") {
		t.Errorf("Reasoning = %q, want penalty summary", opt.Reasoning)
	}
}

func TestCompute_Penalties(t *testing.T) {
	badDepth := types.OrderBookDepth{
		DepthScore:    2,           // +1.5
		SpreadPercent: dec("6"),    // +1
		Liquidity:     dec("500"),  // +1
	}

	opt := Compute(Request{
		CurrentPrice:   dec("0.50"),
		TargetDiscount: dec("5"),
		Depth:          badDepth,
	})

	// 5 + 3.5 penalties, clamped to base+3 = 8
	if !opt.Discount.Equal(dec("8")) {
		t.Errorf("Discount = %s, want 8 (clamped to base+3)", opt.Discount)
	}
}

func TestCompute_PriceBands(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"high band widens", "0.80", "3.5"},
		{"low band narrows", "0.20", "2.5"},
		{"mid band unchanged", "0.50", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := Compute(Request{
				CurrentPrice:   dec(tt.current),
				TargetDiscount: dec("3"),
				Depth:          goodDepth(),
			})
			if !opt.Discount.Equal(dec(tt.want)) {
				t.Errorf("Discount = %s, want %s", opt.Discount, tt.want)
			}
		})
	}
}

func TestCompute_RecommendedPriceAlwaysInRange(t *testing.T) {
	prices := []string{"0.01", "0.05", "0.30", "0.50", "0.70", "0.95", "0.99"}
	discounts := []string{"1", "3", "8", "15"}
	depths := []types.OrderBookDepth{goodDepth(), {}}

	for _, p := range prices {
		for _, disc := range discounts {
			for _, d := range depths {
				opt := Compute(Request{
					CurrentPrice:   dec(p),
					TargetDiscount: dec(disc),
					Depth:          d,
				})
				if opt.RecommendedPrice.LessThan(dec("0.01")) || opt.RecommendedPrice.GreaterThan(dec("0.99")) {
					t.Errorf("RecommendedPrice = %s outside [0.01,0.99] for price=%s discount=%s",
						opt.RecommendedPrice, p, disc)
				}
			}
		}
	}
}

func TestCompute_DiscountBounds(t *testing.T) {
	// Oversized target is floored into the valid range.
	opt := Compute(Request{
		CurrentPrice:   dec("0.50"),
		TargetDiscount: dec("40"),
		Depth:          goodDepth(),
	})
	if opt.Discount.GreaterThan(dec("15")) {
		t.Errorf("Discount = %s, want <= 15", opt.Discount)
	}

	opt = Compute(Request{
		CurrentPrice:   dec("0.20"), // low band subtracts 0.5
		TargetDiscount: dec("1"),
		Depth:          goodDepth(),
	})
	if opt.Discount.LessThan(dec("1")) {
		t.Errorf("Discount = %s, want >= 1", opt.Discount)
	}
}

func TestExpectedFillTime(t *testing.T) {
	tests := []struct {
		name       string
		discount   string
		depthScore int
		want       time.Duration
	}{
		{"small discount fast book", "2", 8, time.Duration(float64(15*time.Minute) * 0.7)},
		{"baseline", "4", 5, 30 * time.Minute},
		{"big discount", "7", 5, 60 * time.Minute},
		{"thin book slows", "4", 2, time.Duration(float64(30*time.Minute) * 1.5)},
		{"deep book speeds", "4", 7, time.Duration(float64(30*time.Minute) * 0.7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expectedFillTime(dec(tt.discount), tt.depthScore)
			if got != tt.want {
				t.Errorf("expectedFillTime(%s, %d) = %s, want %s", tt.discount, tt.depthScore, got, tt.want)
			}
		})
	}
}

func TestConfidenceTiers(t *testing.T) {
	tests := []struct {
		name  string
		depth types.OrderBookDepth
		want  int
	}{
		{"best", types.OrderBookDepth{DepthScore: 8, SpreadPercent: dec("1"), Liquidity: dec("5000")}, 85},
		{"good", types.OrderBookDepth{DepthScore: 5, SpreadPercent: dec("3"), Liquidity: dec("1500")}, 70},
		{"marginal", types.OrderBookDepth{DepthScore: 3, SpreadPercent: dec("8"), Liquidity: dec("400")}, 50},
		{"poor", types.OrderBookDepth{DepthScore: 1, SpreadPercent: dec("12"), Liquidity: dec("100")}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := confidenceFor(tt.depth); got != tt.want {
				t.Errorf("confidenceFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
