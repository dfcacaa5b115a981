// Package positions converts fills into open positions and tracks their
// unrealized P&L.
package positions

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

// NewFromOrder creates a Position from a filled order. The entry price is
// the actual fill price, not the original limit, so the position reflects
// real execution. P&L starts at zero.
func NewFromOrder(order types.Order, fillPrice decimal.Decimal, openedAt time.Time) (types.Position, error) {
	if order.Status != types.OrderStatusFilled {
		return types.Position{}, fmt.Errorf("order %s status %s: positions open only from fills: %w",
			order.ID, order.Status, types.ErrOrderFinal)
	}
	if !fillPrice.IsPositive() {
		return types.Position{}, fmt.Errorf("fill price %s: %w", fillPrice, types.ErrInvalidPrice)
	}

	return types.Position{
		ID:           uuid.New().String(),
		MarketID:     order.MarketID,
		MarketTitle:  order.MarketTitle,
		Side:         order.Side,
		EntryPrice:   fillPrice,
		CurrentPrice: fillPrice,
		Size:         order.Size,
		PnL:          decimal.Zero,
		PnLPercent:   decimal.Zero,
		OpenedAt:     openedAt,
	}, nil
}
