package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"TradeConsole/internal/model"
)

// SQLiteRecorder writes the journal to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("recorder"), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS log_entries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			clock     TEXT,
			type      TEXT,
			text      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_log_ts ON log_entries(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			order_id  TEXT,
			exchange  TEXT,
			symbol    TEXT,
			side      TEXT,
			size      REAL,
			price     REAL,
			notional  REAL,
			clamped   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fund_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			event_type       TEXT,
			method           TEXT,
			available_before REAL,
			available_after  REAL,
			max_per_trade    REAL,
			amount           REAL,
			note             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fund_ts ON fund_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordLog(ctx context.Context, entry model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO log_entries
		(timestamp, clock, type, text) VALUES (?,?,?,?)`,
		r.now().Unix(), entry.Time, string(entry.Type), entry.Text,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(ctx context.Context, t model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := t.Time
	if ts.IsZero() {
		ts = r.now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO trades
		(timestamp, order_id, exchange, symbol, side, size, price, notional, clamped)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), t.OrderID, t.Exchange, t.Symbol, string(t.Side),
		t.Size, t.Price, t.Notional, t.Clamped,
	)
	return err
}

func (r *SQLiteRecorder) RecordFundEvent(ctx context.Context, evt *FundEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO fund_history
		(timestamp, event_type, method, available_before, available_after, max_per_trade, amount, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.now().Unix(), evt.EventType, evt.Method,
		evt.Before, evt.After, evt.MaxPerTrade,
		evt.Amount, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
