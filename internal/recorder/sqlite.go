package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With("component", "sqlite_recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                 TEXT PRIMARY KEY,
			watch              TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			timeframe          TEXT NOT NULL,
			started_at         INTEGER NOT NULL,
			duration_ms        INTEGER,
			candles            INTEGER,
			buy_count          INTEGER,
			sell_count         INTEGER,
			buy_assertiveness  REAL,
			sell_assertiveness REAL,
			report             TEXT,
			error              TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_watch_ts ON analysis_runs(watch, started_at)`,

		`CREATE TABLE IF NOT EXISTS run_signals (
			run_id    TEXT NOT NULL REFERENCES analysis_runs(id),
			timestamp INTEGER NOT NULL,
			direction TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON run_signals(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *Run) error {
	row, err := toRow(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs
		(id, watch, symbol, timeframe, started_at, duration_ms, candles,
		 buy_count, sell_count, buy_assertiveness, sell_assertiveness, report, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.ID, row.Watch, row.Symbol, row.Timeframe, row.StartedAt, row.DurationMS, row.Candles,
		row.BuyCount, row.SellCount, row.BuyAssertiveness, row.SellAssertiveness, row.Report, row.Error,
	)
	if err != nil {
		return err
	}

	if run.Report != nil {
		for _, sig := range run.Report.Signals() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_signals (run_id, timestamp, direction) VALUES (?,?,?)`,
				row.ID, sig.Timestamp, string(sig.Direction),
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LastRun(ctx context.Context, watch string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var row runRow
	err := r.db.QueryRowContext(ctx, `SELECT
		id, watch, symbol, timeframe, started_at, duration_ms, candles,
		buy_count, sell_count, buy_assertiveness, sell_assertiveness, report, error
		FROM analysis_runs WHERE watch = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`, watch,
	).Scan(&row.ID, &row.Watch, &row.Symbol, &row.Timeframe, &row.StartedAt, &row.DurationMS, &row.Candles,
		&row.BuyCount, &row.SellCount, &row.BuyAssertiveness, &row.SellAssertiveness, &row.Report, &row.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "run of %q", watch)
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

// SignalCount returns how many signals were stored for a run.
func (r *SQLiteRecorder) SignalCount(ctx context.Context, runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_signals WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
