package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"
)

func setupTestDB(t *testing.T) (*SQLiteRepository, func()) {
	t.Helper()

	// Create temp file
	f, err := os.CreateTemp("", "polysniper-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("create repository: %v", err)
	}

	cleanup := func() {
		repo.Close()
		os.Remove(path)
	}

	return repo, cleanup
}

func testOrder(clientOrderID string) types.Order {
	return types.Order{
		ID:                     "ord-" + clientOrderID,
		ClientOrderID:          clientOrderID,
		MarketID:               "mkt-1",
		MarketTitle:            "Fed cuts rates at next meeting",
		Side:                   types.SideYes,
		LimitPrice:             decimal.RequireFromString("0.582"),
		CurrentPriceAtCreation: decimal.RequireFromString("0.60"),
		Discount:               decimal.NewFromInt(3),
		Size:                   decimal.NewFromInt(50),
		Status:                 types.OrderStatusPending,
		CreatedAt:              time.Now().Truncate(time.Second),
		LadderIndex:            -1,
	}
}

func TestSQLiteRepository_OrderRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder("20260901-120000-abc123")

	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("save order: %v", err)
	}

	pending, err := repo.GetPendingOrders(ctx)
	if err != nil {
		t.Fatalf("get pending orders: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending length = %d, want 1", len(pending))
	}

	got := pending[0]
	if got.ClientOrderID != order.ClientOrderID {
		t.Errorf("client order id = %s, want %s", got.ClientOrderID, order.ClientOrderID)
	}
	if !got.LimitPrice.Equal(order.LimitPrice) {
		t.Errorf("limit price = %s, want %s", got.LimitPrice, order.LimitPrice)
	}
	if !got.Size.Equal(order.Size) {
		t.Errorf("size = %s, want %s", got.Size, order.Size)
	}
	if got.Status != types.OrderStatusPending {
		t.Errorf("status = %v, want pending", got.Status)
	}
	if got.LadderIndex != -1 {
		t.Errorf("ladder index = %d, want -1", got.LadderIndex)
	}
}

func TestSQLiteRepository_SaveOrderIdempotent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder("20260901-120000-dup")

	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// Replaying the same order must not error or duplicate.
	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("second save: %v", err)
	}

	pending, err := repo.GetPendingOrders(ctx)
	if err != nil {
		t.Fatalf("get pending orders: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending length = %d, want 1", len(pending))
	}
}

func TestSQLiteRepository_UpdateOrderStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder("20260901-120000-fill")

	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("save order: %v", err)
	}

	fillPrice := decimal.RequireFromString("0.58")
	if err := repo.UpdateOrderStatus(ctx, order.ClientOrderID, types.OrderStatusFilled, fillPrice); err != nil {
		t.Fatalf("update status: %v", err)
	}

	pending, err := repo.GetPendingOrders(ctx)
	if err != nil {
		t.Fatalf("get pending orders: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending length after fill = %d, want 0", len(pending))
	}
}

func TestSQLiteRepository_Position(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	position := types.Position{
		ID:           "pos-123",
		MarketID:     "mkt-1",
		MarketTitle:  "Fed cuts rates at next meeting",
		Side:         types.SideYes,
		EntryPrice:   decimal.RequireFromString("0.58"),
		CurrentPrice: decimal.RequireFromString("0.58"),
		Size:         decimal.NewFromInt(50),
		PnL:          decimal.Zero,
		PnLPercent:   decimal.Zero,
		OpenedAt:     time.Now().Truncate(time.Second),
	}

	if err := repo.SavePosition(ctx, position); err != nil {
		t.Fatalf("save position: %v", err)
	}

	open, err := repo.GetOpenPositions(ctx)
	if err != nil {
		t.Fatalf("get open positions: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open length = %d, want 1", len(open))
	}
	if !open[0].EntryPrice.Equal(position.EntryPrice) {
		t.Errorf("entry price = %s, want %s", open[0].EntryPrice, position.EntryPrice)
	}

	if err := repo.ClosePosition(ctx, position.ID, time.Now()); err != nil {
		t.Fatalf("close position: %v", err)
	}

	open, err = repo.GetOpenPositions(ctx)
	if err != nil {
		t.Fatalf("get open positions: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open length after close = %d, want 0", len(open))
	}
}

func TestSQLiteRepository_EngineState(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// No state saved yet
	state, err := repo.GetEngineState(ctx)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state != nil {
		t.Fatal("expected nil state before first save")
	}

	saved := EngineState{
		LastUpdated:       time.Now().Truncate(time.Second),
		IsRunning:         true,
		DailyLimitReached: false,
		TodayStartPnL:     decimal.NewFromInt(-20),
		BaselineDay:       "2026-09-01",
		TotalPnL:          decimal.NewFromInt(130),
	}
	if err := repo.SaveEngineState(ctx, saved); err != nil {
		t.Fatalf("save state: %v", err)
	}

	state, err = repo.GetEngineState(ctx)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state == nil {
		t.Fatal("expected state, got nil")
	}
	if !state.IsRunning {
		t.Error("is_running not persisted")
	}
	if state.BaselineDay != saved.BaselineDay {
		t.Errorf("baseline day = %s, want %s", state.BaselineDay, saved.BaselineDay)
	}
	if !state.TodayStartPnL.Equal(saved.TodayStartPnL) {
		t.Errorf("today start pnl = %s, want %s", state.TodayStartPnL, saved.TodayStartPnL)
	}

	// Overwrite keeps a single row
	saved.DailyLimitReached = true
	if err := repo.SaveEngineState(ctx, saved); err != nil {
		t.Fatalf("save state again: %v", err)
	}
	state, err = repo.GetEngineState(ctx)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if !state.DailyLimitReached {
		t.Error("daily_limit_reached not updated")
	}
}

func TestSQLiteRepository_DailySummary(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	summary := DailySummary{
		Day:           "2026-09-01",
		OrdersPlaced:  7,
		OrdersFilled:  3,
		OrdersExpired: 2,
		RealizedPnL:   decimal.RequireFromString("12.50"),
	}
	if err := repo.UpsertDailySummary(ctx, summary); err != nil {
		t.Fatalf("upsert summary: %v", err)
	}

	got, err := repo.GetDailySummary(ctx, summary.Day)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if got == nil {
		t.Fatal("expected summary, got nil")
	}
	if got.OrdersPlaced != 7 || got.OrdersFilled != 3 {
		t.Errorf("counts = %d/%d, want 7/3", got.OrdersPlaced, got.OrdersFilled)
	}
	if !got.RealizedPnL.Equal(summary.RealizedPnL) {
		t.Errorf("realized pnl = %s, want %s", got.RealizedPnL, summary.RealizedPnL)
	}

	missing, err := repo.GetDailySummary(ctx, "1999-01-01")
	if err != nil {
		t.Fatalf("get missing summary: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing day")
	}
}
