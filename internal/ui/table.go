// Package ui renders engine state as terminal tables.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/owade/polysniper/internal/types"
)

// RenderOpportunities prints ranked scan results, best first.
func RenderOpportunities(out io.Writer, opps []types.Opportunity) {
	now := time.Now().Format("15:04:05")
	if len(opps) == 0 {
		fmt.Fprintf(out, "[%s] no opportunities found\n", now)
		return
	}

	fmt.Fprintf(out, "\n[%s] %d opportunities\n", now, len(opps))

	table := tablewriter.NewWriter(out)
	table.Header("#", "Market", "Side", "Current", "Snipe", "Disc%", "Depth", "Conf", "Profit%", "Fill ETA")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(opp.Market.Title, 36),
			opp.Side.String(),
			opp.Pricing.CurrentPrice.StringFixed(3),
			opp.Pricing.RecommendedPrice.StringFixed(3),
			opp.Pricing.Discount.StringFixed(1),
			fmt.Sprintf("%d/10", opp.Depth.DepthScore),
			fmt.Sprintf("%d", opp.Pricing.Confidence),
			opp.ImpliedProfit.StringFixed(2),
			opp.Pricing.ExpectedFillTime.String(),
		)
	}

	table.Render()
}

// RenderOrders prints the live order book of the engine.
func RenderOrders(out io.Writer, orders []types.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "no pending orders")
		return
	}

	table := tablewriter.NewWriter(out)
	table.Header("Order", "Market", "Side", "Limit", "Size", "Status", "Age", "Resubmits")

	now := time.Now()
	for _, o := range orders {
		table.Append(
			o.ID[:8],
			truncate(o.MarketTitle, 36),
			o.Side.String(),
			o.LimitPrice.StringFixed(3),
			o.Size.StringFixed(2),
			o.Status.String(),
			now.Sub(o.CreatedAt).Round(time.Second).String(),
			fmt.Sprintf("%d", o.ResubmitCount),
		)
	}

	table.Render()
}

// RenderPositions prints open positions with marks.
func RenderPositions(out io.Writer, positions []types.Position) {
	if len(positions) == 0 {
		fmt.Fprintln(out, "no open positions")
		return
	}

	table := tablewriter.NewWriter(out)
	table.Header("Position", "Market", "Side", "Entry", "Mark", "Size", "PnL", "PnL%")

	for _, p := range positions {
		table.Append(
			p.ID[:8],
			truncate(p.MarketTitle, 36),
			p.Side.String(),
			p.EntryPrice.StringFixed(3),
			p.CurrentPrice.StringFixed(3),
			p.Size.StringFixed(2),
			p.PnL.StringFixed(2),
			p.PnLPercent.StringFixed(2),
		)
	}

	table.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
