package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/owade/polysniper/internal/types"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	// Run migrations
	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			client_order_id TEXT UNIQUE NOT NULL,
			market_id TEXT NOT NULL,
			market_title TEXT,
			side INTEGER NOT NULL,
			limit_price TEXT NOT NULL,
			current_price TEXT NOT NULL,
			discount TEXT NOT NULL,
			size TEXT NOT NULL,
			status INTEGER NOT NULL,
			fill_price TEXT,
			filled_at DATETIME,
			ladder_index INTEGER NOT NULL DEFAULT -1,
			resubmit_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client_order_id ON orders(client_order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_market_id ON orders(market_id)`,

		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			market_id TEXT NOT NULL,
			market_title TEXT,
			side INTEGER NOT NULL,
			entry_price TEXT NOT NULL,
			current_price TEXT NOT NULL,
			size TEXT NOT NULL,
			pnl TEXT NOT NULL DEFAULT '0',
			pnl_percent TEXT NOT NULL DEFAULT '0',
			opened_at DATETIME NOT NULL,
			closed_at DATETIME,
			is_open INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_market_id ON positions(market_id)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_is_open ON positions(is_open)`,

		`CREATE TABLE IF NOT EXISTS engine_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			last_updated DATETIME NOT NULL,
			is_running INTEGER NOT NULL DEFAULT 0,
			daily_limit_reached INTEGER NOT NULL DEFAULT 0,
			today_start_pnl TEXT NOT NULL DEFAULT '0',
			baseline_day TEXT NOT NULL DEFAULT '',
			total_pnl TEXT NOT NULL DEFAULT '0'
		)`,

		`CREATE TABLE IF NOT EXISTS daily_summaries (
			day TEXT PRIMARY KEY,
			orders_placed INTEGER NOT NULL DEFAULT 0,
			orders_filled INTEGER NOT NULL DEFAULT 0,
			orders_expired INTEGER NOT NULL DEFAULT 0,
			orders_cancelled INTEGER NOT NULL DEFAULT 0,
			realized_pnl TEXT NOT NULL DEFAULT '0'
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveOrder saves an order. The client order id makes the insert idempotent:
// replaying the same order after a crash is a no-op.
func (r *SQLiteRepository) SaveOrder(ctx context.Context, order types.Order) error {
	query := `INSERT INTO orders
		(id, client_order_id, market_id, market_title, side, limit_price, current_price, discount, size, status, ladder_index, resubmit_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_order_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.ClientOrderID,
		order.MarketID,
		order.MarketTitle,
		order.Side,
		order.LimitPrice.String(),
		order.CurrentPriceAtCreation.String(),
		order.Discount.String(),
		order.Size.String(),
		order.Status,
		order.LadderIndex,
		order.ResubmitCount,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetPendingOrders returns orders that have not reached a terminal status.
func (r *SQLiteRepository) GetPendingOrders(ctx context.Context) ([]types.Order, error) {
	query := `SELECT id, client_order_id, market_id, market_title, side, limit_price, current_price, discount, size, status, fill_price, filled_at, ladder_index, resubmit_count, created_at
		FROM orders WHERE status = ? ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, types.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []types.Order
	for rows.Next() {
		var o types.Order
		var limitPrice, currentPrice, discount, size string
		var fillPrice sql.NullString
		var filledAt sql.NullTime
		var marketTitle sql.NullString

		if err := rows.Scan(&o.ID, &o.ClientOrderID, &o.MarketID, &marketTitle, &o.Side, &limitPrice, &currentPrice, &discount, &size, &o.Status, &fillPrice, &filledAt, &o.LadderIndex, &o.ResubmitCount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		o.MarketTitle = marketTitle.String
		o.LimitPrice, _ = decimal.NewFromString(limitPrice)
		o.CurrentPriceAtCreation, _ = decimal.NewFromString(currentPrice)
		o.Discount, _ = decimal.NewFromString(discount)
		o.Size, _ = decimal.NewFromString(size)
		if fillPrice.Valid {
			o.FillPrice, _ = decimal.NewFromString(fillPrice.String)
		}
		if filledAt.Valid {
			o.FilledAt = &filledAt.Time
		}

		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// UpdateOrderStatus updates an order's status by client order id.
func (r *SQLiteRepository) UpdateOrderStatus(ctx context.Context, clientOrderID string, status types.OrderStatus, fillPrice decimal.Decimal) error {
	var query string
	var args []interface{}

	if status == types.OrderStatusFilled {
		query = `UPDATE orders SET status = ?, fill_price = ?, filled_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE client_order_id = ?`
		args = []interface{}{status, fillPrice.String(), clientOrderID}
	} else {
		query = `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE client_order_id = ?`
		args = []interface{}{status, clientOrderID}
	}

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return nil
}

// SavePosition saves a position.
func (r *SQLiteRepository) SavePosition(ctx context.Context, position types.Position) error {
	query := `INSERT OR REPLACE INTO positions
		(id, market_id, market_title, side, entry_price, current_price, size, pnl, pnl_percent, opened_at, is_open, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP)`

	_, err := r.db.ExecContext(ctx, query,
		position.ID,
		position.MarketID,
		position.MarketTitle,
		position.Side,
		position.EntryPrice.String(),
		position.CurrentPrice.String(),
		position.Size.String(),
		position.PnL.String(),
		position.PnLPercent.String(),
		position.OpenedAt,
	)
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}

	return nil
}

// GetOpenPositions returns all open positions.
func (r *SQLiteRepository) GetOpenPositions(ctx context.Context) ([]types.Position, error) {
	query := `SELECT id, market_id, market_title, side, entry_price, current_price, size, pnl, pnl_percent, opened_at
		FROM positions WHERE is_open = 1`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		var entryPrice, currentPrice, size, pnl, pnlPercent string
		var marketTitle sql.NullString

		if err := rows.Scan(&p.ID, &p.MarketID, &marketTitle, &p.Side, &entryPrice, &currentPrice, &size, &pnl, &pnlPercent, &p.OpenedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		p.MarketTitle = marketTitle.String
		p.EntryPrice, _ = decimal.NewFromString(entryPrice)
		p.CurrentPrice, _ = decimal.NewFromString(currentPrice)
		p.Size, _ = decimal.NewFromString(size)
		p.PnL, _ = decimal.NewFromString(pnl)
		p.PnLPercent, _ = decimal.NewFromString(pnlPercent)

		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// ClosePosition marks a position as closed.
func (r *SQLiteRepository) ClosePosition(ctx context.Context, positionID string, closedAt time.Time) error {
	query := `UPDATE positions SET is_open = 0, closed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, closedAt, positionID)
	if err != nil {
		return fmt.Errorf("close position: %w", err)
	}

	return nil
}

// SaveEngineState saves the engine state snapshot.
func (r *SQLiteRepository) SaveEngineState(ctx context.Context, state EngineState) error {
	query := `INSERT OR REPLACE INTO engine_state
		(id, last_updated, is_running, daily_limit_reached, today_start_pnl, baseline_day, total_pnl)
		VALUES (1, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		state.LastUpdated,
		boolToInt(state.IsRunning),
		boolToInt(state.DailyLimitReached),
		state.TodayStartPnL.String(),
		state.BaselineDay,
		state.TotalPnL.String(),
	)
	if err != nil {
		return fmt.Errorf("save engine state: %w", err)
	}

	return nil
}

// GetEngineState returns the saved engine state, or nil when none exists.
func (r *SQLiteRepository) GetEngineState(ctx context.Context) (*EngineState, error) {
	query := `SELECT id, last_updated, is_running, daily_limit_reached, today_start_pnl, baseline_day, total_pnl
		FROM engine_state WHERE id = 1`

	var state EngineState
	var todayStart, totalPnL string
	var isRunning, limitReached int

	err := r.db.QueryRowContext(ctx, query).Scan(
		&state.ID,
		&state.LastUpdated,
		&isRunning,
		&limitReached,
		&todayStart,
		&state.BaselineDay,
		&totalPnL,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query engine state: %w", err)
	}

	state.TodayStartPnL, _ = decimal.NewFromString(todayStart)
	state.TotalPnL, _ = decimal.NewFromString(totalPnL)
	state.IsRunning = isRunning == 1
	state.DailyLimitReached = limitReached == 1

	return &state, nil
}

// UpsertDailySummary writes the summary row for one day.
func (r *SQLiteRepository) UpsertDailySummary(ctx context.Context, summary DailySummary) error {
	query := `INSERT OR REPLACE INTO daily_summaries
		(day, orders_placed, orders_filled, orders_expired, orders_cancelled, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		summary.Day,
		summary.OrdersPlaced,
		summary.OrdersFilled,
		summary.OrdersExpired,
		summary.OrdersCancelled,
		summary.RealizedPnL.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}

	return nil
}

// GetDailySummary returns the summary for a day, or nil when none exists.
func (r *SQLiteRepository) GetDailySummary(ctx context.Context, day string) (*DailySummary, error) {
	query := `SELECT day, orders_placed, orders_filled, orders_expired, orders_cancelled, realized_pnl
		FROM daily_summaries WHERE day = ?`

	var s DailySummary
	var realized string

	err := r.db.QueryRowContext(ctx, query, day).Scan(
		&s.Day,
		&s.OrdersPlaced,
		&s.OrdersFilled,
		&s.OrdersExpired,
		&s.OrdersCancelled,
		&realized,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}

	s.RealizedPnL, _ = decimal.NewFromString(realized)

	return &s, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
