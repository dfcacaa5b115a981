package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

func TestRenderOpportunities(t *testing.T) {
	var buf bytes.Buffer

	RenderOpportunities(&buf, nil)
	if !strings.Contains(buf.String(), "no opportunities") {
		t.Errorf("empty render = %q", buf.String())
	}

	buf.Reset()
	opps := []types.Opportunity{{
		Market: types.Market{ID: "m1", Title: "Fed cuts rates at next meeting"},
		Side:   types.SideYes,
		Depth:  types.OrderBookDepth{DepthScore: 7},
		Pricing: types.OptimalPrice{
			CurrentPrice:     decimal.RequireFromString("0.60"),
			RecommendedPrice: decimal.RequireFromString("0.582"),
			Discount:         decimal.NewFromInt(3),
			Confidence:       85,
			ExpectedFillTime: 21 * time.Minute,
		},
		ImpliedProfit: decimal.RequireFromString("3.09"),
	}}
	RenderOpportunities(&buf, opps)

	out := buf.String()
	for _, want := range []string{"Fed cuts rates", "YES", "0.582", "7/10", "85"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOrdersAndPositions(t *testing.T) {
	var buf bytes.Buffer

	RenderOrders(&buf, nil)
	if !strings.Contains(buf.String(), "no pending orders") {
		t.Errorf("empty orders render = %q", buf.String())
	}

	buf.Reset()
	RenderOrders(&buf, []types.Order{{
		ID:          "12345678-abcd",
		MarketTitle: "ETH above $4k by year end",
		Side:        types.SideNo,
		LimitPrice:  decimal.RequireFromString("0.42"),
		Size:        decimal.NewFromInt(50),
		Status:      types.OrderStatusPending,
		CreatedAt:   time.Now().Add(-time.Minute),
	}})
	if !strings.Contains(buf.String(), "PENDING") {
		t.Errorf("orders output missing status:\n%s", buf.String())
	}

	buf.Reset()
	RenderPositions(&buf, []types.Position{{
		ID:           "87654321-dcba",
		MarketTitle:  "ETH above $4k by year end",
		Side:         types.SideYes,
		EntryPrice:   decimal.RequireFromString("0.40"),
		CurrentPrice: decimal.RequireFromString("0.45"),
		Size:         decimal.NewFromInt(50),
		PnL:          decimal.RequireFromString("6.25"),
		PnLPercent:   decimal.RequireFromString("12.5"),
	}})
	if !strings.Contains(buf.String(), "6.25") {
		t.Errorf("positions output missing pnl:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long market title indeed", 10); got != "a very ..." {
		t.Errorf("truncate(long) = %q", got)
	}
}
