package strategy

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"PatternScout/internal/evaluator"
	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

// Engine runs the enabled detectors over a series and folds their columns
// into confluence signals.
type Engine struct {
	log    *logger.Logger
	future int
}

// NewEngine creates an engine that evaluates signals DefaultFuture candles
// ahead.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		log:    log.With("component", "engine"),
		future: evaluator.DefaultFuture,
	}
}

// Columns runs the named detectors concurrently and returns their columns in
// the order of names. The first failure stops detectors that have not yet
// started.
func (e *Engine) Columns(ctx context.Context, s model.Series, names []string) ([]model.Column, error) {
	funcs := make([]detectFunc, len(names))
	for i, name := range names {
		detect, ok := detectors[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown detector %q", name)
		}
		funcs[i] = detect
	}

	cols := make([]model.Column, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		detect := funcs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			col, err := detect(s)
			if err != nil {
				return errors.Wrapf(err, "%s detector", name)
			}
			cols[i] = col
			e.log.Debugf("%s: %d candles in %s", name, len(s), time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cols, nil
}

// Aggregate counts agreeing columns per candle. When candle i reaches minBuy
// buys while staying under minSell sells, a buy is emitted at the next
// candle's timestamp, and symmetrically for sells. A candle that reaches both
// thresholds emits nothing. The last candle has no successor and never fires.
func Aggregate(cols []model.Column, ts []int64, minBuy, minSell int) (buy, sell []int64) {
	for i := 0; i+1 < len(ts); i++ {
		var confBuy, confSell int
		for _, c := range cols {
			if i < c.Len() {
				if c.Buy[i] {
					confBuy++
				}
				if c.Sell[i] {
					confSell++
				}
			}
		}

		switch {
		case confBuy >= minBuy && confSell < minSell:
			buy = append(buy, ts[i+1])
		case confSell >= minSell && confBuy < minBuy:
			sell = append(sell, ts[i+1])
		}
	}
	return buy, sell
}

// Signals validates cfg and returns the confluence buy and sell timestamps.
func (e *Engine) Signals(ctx context.Context, s model.Series, cfg model.AnalysisConfig) (buy, sell []int64, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	cols, err := e.Columns(ctx, s, cfg.Enabled())
	if err != nil {
		return nil, nil, err
	}
	buy, sell = Aggregate(cols, s.Timestamps(), cfg.Confluence.Buy, cfg.Confluence.Sell)
	return buy, sell, nil
}

// Analyze produces the full report for one run: signals, their evaluation,
// the plottable shapes and, with the S/R detector on, level insights.
func (e *Engine) Analyze(ctx context.Context, s model.Series, cfg model.AnalysisConfig) (*model.Report, error) {
	buy, sell, err := e.Signals(ctx, s, cfg)
	if err != nil {
		return nil, err
	}

	shapes, err := BuildShapes(s, cfg.Shapes)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Buy:      buy,
		Sell:     sell,
		BuyEval:  evaluator.Evaluate(s, buy, model.Buy, e.future),
		SellEval: evaluator.Evaluate(s, sell, model.Sell, e.future),
		Shapes:   shapes,
	}
	if cfg.Shapes.SR && len(s) > 0 {
		report.Insights = Insights(s)
	}

	e.log.Infof("analysis done: %d candles, %d buys, %d sells", len(s), len(buy), len(sell))
	return report, nil
}
