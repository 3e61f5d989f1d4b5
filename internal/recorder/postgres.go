package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

// PostgresRecorder persists runs to PostgreSQL. Signals are stored per row
// so they can be joined against candles elsewhere.
type PostgresRecorder struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresRecorder connects to dsn and runs migrations.
func NewPostgresRecorder(ctx context.Context, dsn string, log *logger.Logger) (*PostgresRecorder, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	r := &PostgresRecorder{db: db, log: log.With("component", "postgres_recorder")}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r.log.Info("postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                 UUID PRIMARY KEY,
			watch              TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			timeframe          TEXT NOT NULL,
			started_at         BIGINT NOT NULL,
			duration_ms        BIGINT NOT NULL DEFAULT 0,
			candles            INTEGER NOT NULL DEFAULT 0,
			buy_count          INTEGER NOT NULL DEFAULT 0,
			sell_count         INTEGER NOT NULL DEFAULT 0,
			buy_assertiveness  DOUBLE PRECISION NOT NULL DEFAULT 0,
			sell_assertiveness DOUBLE PRECISION NOT NULL DEFAULT 0,
			report             TEXT NOT NULL DEFAULT '',
			error              TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_watch_ts ON analysis_runs(watch, started_at DESC)`,
		`CREATE TABLE IF NOT EXISTS run_signals (
			run_id    UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			timestamp BIGINT NOT NULL,
			direction TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON run_signals(run_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordRun(ctx context.Context, run *Run) error {
	row, err := toRow(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `INSERT INTO analysis_runs (
			id, watch, symbol, timeframe, started_at, duration_ms, candles,
			buy_count, sell_count, buy_assertiveness, sell_assertiveness, report, error
		) VALUES (
			:id, :watch, :symbol, :timeframe, :started_at, :duration_ms, :candles,
			:buy_count, :sell_count, :buy_assertiveness, :sell_assertiveness, :report, :error
		)`, row)
	if err != nil {
		return err
	}

	if run.Report != nil {
		for _, sig := range run.Report.Signals() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_signals (run_id, timestamp, direction) VALUES ($1, $2, $3)`,
				row.ID, sig.Timestamp, string(sig.Direction),
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *PostgresRecorder) LastRun(ctx context.Context, watch string) (*Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, watch, symbol, timeframe, started_at, duration_ms, candles,
		       buy_count, sell_count, buy_assertiveness, sell_assertiveness, report, error
		FROM analysis_runs
		WHERE watch = $1
		ORDER BY started_at DESC
		LIMIT 1`, watch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "run of %q", watch)
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
