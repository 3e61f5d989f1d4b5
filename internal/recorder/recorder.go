package recorder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"PatternScout/internal/model"
)

// Run is one scheduled or manual analysis of a watch.
type Run struct {
	ID        uuid.UUID
	Watch     string
	Symbol    string
	Timeframe string
	StartedAt time.Time
	Duration  time.Duration
	Candles   int
	Report    *model.Report // nil when the run failed
	Err       string
}

// NewRun starts a run record for w.
func NewRun(w model.Watch, startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		Watch:     w.Name,
		Symbol:    w.Symbol,
		Timeframe: w.Timeframe,
		StartedAt: startedAt,
	}
}

// Recorder persists analysis runs.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
	// LastRun returns the most recent run of watch, or an error wrapping
	// errors.ErrNotFound.
	LastRun(ctx context.Context, watch string) (*Run, error)
	Close() error
}

// runRow is the flat column layout shared by the SQL recorders.
type runRow struct {
	ID                string  `db:"id"`
	Watch             string  `db:"watch"`
	Symbol            string  `db:"symbol"`
	Timeframe         string  `db:"timeframe"`
	StartedAt         int64   `db:"started_at"`
	DurationMS        int64   `db:"duration_ms"`
	Candles           int     `db:"candles"`
	BuyCount          int     `db:"buy_count"`
	SellCount         int     `db:"sell_count"`
	BuyAssertiveness  float64 `db:"buy_assertiveness"`
	SellAssertiveness float64 `db:"sell_assertiveness"`
	Report            string  `db:"report"`
	Error             string  `db:"error"`
}

func toRow(run *Run) (runRow, error) {
	row := runRow{
		ID:         run.ID.String(),
		Watch:      run.Watch,
		Symbol:     run.Symbol,
		Timeframe:  run.Timeframe,
		StartedAt:  run.StartedAt.Unix(),
		DurationMS: run.Duration.Milliseconds(),
		Candles:    run.Candles,
		Error:      run.Err,
	}
	if r := run.Report; r != nil {
		data, err := json.Marshal(r)
		if err != nil {
			return row, err
		}
		row.Report = string(data)
		row.BuyCount, row.SellCount = len(r.Buy), len(r.Sell)
		row.BuyAssertiveness, row.SellAssertiveness = r.BuyEval.Assertiveness, r.SellEval.Assertiveness
	}
	return row, nil
}

func fromRow(row runRow) (*Run, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	run := &Run{
		ID:        id,
		Watch:     row.Watch,
		Symbol:    row.Symbol,
		Timeframe: row.Timeframe,
		StartedAt: time.Unix(row.StartedAt, 0),
		Duration:  time.Duration(row.DurationMS) * time.Millisecond,
		Candles:   row.Candles,
		Err:       row.Error,
	}
	if row.Report != "" {
		run.Report = &model.Report{}
		if err := json.Unmarshal([]byte(row.Report), run.Report); err != nil {
			return nil, err
		}
	}
	return run, nil
}

var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = (*PostgresRecorder)(nil)
	_ Recorder = (*NoopRecorder)(nil)
)
