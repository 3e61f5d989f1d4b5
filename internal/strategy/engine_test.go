package strategy

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

func ramp(n int) model.Series {
	s := make(model.Series, n)
	for i := range s {
		c := 100 + float64(i)
		s[i] = model.Candle{Timestamp: int64(i) * 60, Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 100}
	}
	return s
}

func wave(n int) model.Series {
	s := make(model.Series, n)
	for i := range s {
		c := 100 + 10*math.Sin(float64(i)/7) + 0.05*float64(i)
		s[i] = model.Candle{Timestamp: int64(i) * 60, Open: c - 0.3, High: c + 0.8, Low: c - 0.8, Close: c, Volume: 100 + float64(i%5)*10}
	}
	return s
}

func column(n int, buys, sells []int) model.Column {
	c := model.NewColumn(n)
	for _, i := range buys {
		c.Buy[i] = true
	}
	for _, i := range sells {
		c.Sell[i] = true
	}
	return c
}

func allEnabled() model.AnalysisConfig {
	return model.AnalysisConfig{
		Candles:    true,
		Shapes:     model.ShapeFlags{SR: true, Flags: true, Fibonacci: true, HS: true},
		Indicators: model.IndicatorFlags{BB: true, EMA: true, RSI: true, MACD: true, Stochastic: true},
		Confluence: model.Confluence{Buy: 2, Sell: 2},
	}
}

func TestAggregate_Confluence(t *testing.T) {
	ts := []int64{10, 20, 30, 40, 50}
	cols := []model.Column{
		column(5, []int{2}, nil),
		column(5, []int{2}, []int{3}),
	}

	buy, sell := Aggregate(cols, ts, 2, 2)
	assert.Equal(t, []int64{40}, buy, "fires at the candle after the agreement")
	assert.Empty(t, sell)

	buy, _ = Aggregate(cols, ts, 3, 2)
	assert.Empty(t, buy)

	_, sell = Aggregate(cols, ts, 2, 1)
	assert.Equal(t, []int64{50}, sell)
}

func TestAggregate_AmbiguousCandleEmitsNothing(t *testing.T) {
	ts := []int64{10, 20, 30}
	cols := []model.Column{
		column(3, []int{1}, []int{1}),
		column(3, []int{1}, []int{1}),
	}
	buy, sell := Aggregate(cols, ts, 2, 2)
	assert.Empty(t, buy)
	assert.Empty(t, sell)

	buy, sell = Aggregate(cols, ts, 2, 3)
	assert.Equal(t, []int64{30}, buy)
	assert.Empty(t, sell)
}

func TestAggregate_LastCandleNeverFires(t *testing.T) {
	ts := []int64{10, 20, 30}
	cols := []model.Column{column(3, []int{2}, nil)}
	buy, sell := Aggregate(cols, ts, 1, 1)
	assert.Empty(t, buy)
	assert.Empty(t, sell)

	buy, sell = Aggregate(nil, nil, 1, 1)
	assert.Empty(t, buy)
	assert.Empty(t, sell)
}

func TestEngine_RejectsInvalidConfig(t *testing.T) {
	e := NewEngine(logger.Nop())

	_, err := e.Analyze(context.Background(), ramp(40), model.AnalysisConfig{Confluence: model.Confluence{Buy: 1, Sell: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg := allEnabled()
	cfg.Confluence.Sell = 0
	_, err = e.Analyze(context.Background(), ramp(40), cfg)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestEngine_UnknownDetector(t *testing.T) {
	e := NewEngine(logger.Nop())
	_, err := e.Columns(context.Background(), ramp(10), []string{model.DetectorRSI, "astrology"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestEngine_ColumnsForEveryDetector(t *testing.T) {
	s := wave(300)
	names := allEnabled().Enabled()
	require.Len(t, names, 10)

	cols, err := NewEngine(logger.Nop()).Columns(context.Background(), s, names)
	require.NoError(t, err)
	require.Len(t, cols, len(names))
	for i, c := range cols {
		assert.Equal(t, len(s), c.Len(), names[i])
		assert.Len(t, c.Sell, len(s), names[i])
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(logger.Nop()).Columns(ctx, wave(50), []string{model.DetectorRSI})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_AnalyzeRSIOnRamp(t *testing.T) {
	s := ramp(40)
	cfg := model.AnalysisConfig{
		Indicators: model.IndicatorFlags{RSI: true},
		Confluence: model.Confluence{Buy: 1, Sell: 1},
	}

	report, err := NewEngine(logger.Nop()).Analyze(context.Background(), s, cfg)
	require.NoError(t, err)

	assert.Empty(t, report.Buy)
	require.Len(t, report.Sell, 25)
	assert.Equal(t, s[15].Timestamp, report.Sell[0])
	assert.Equal(t, s[39].Timestamp, report.Sell[24])

	assert.Equal(t, model.EvaluationResult{}, report.BuyEval)
	assert.Equal(t, model.EvaluationResult{Total: 15, Misses: 15}, report.SellEval)

	assert.Empty(t, report.Shapes.SR)
	assert.Empty(t, report.Shapes.Flags)
	assert.Nil(t, report.Insights)
}

func TestEngine_AnalyzeIsRepeatable(t *testing.T) {
	e := NewEngine(logger.Nop())
	s := wave(300)
	cfg := allEnabled()

	first, err := e.Analyze(context.Background(), s, cfg)
	require.NoError(t, err)
	second, err := e.Analyze(context.Background(), s, cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildShapes_Ramp(t *testing.T) {
	s := ramp(150)
	shapes, err := BuildShapes(s, model.ShapeFlags{SR: true, Flags: true, Fibonacci: true, HS: true})
	require.NoError(t, err)

	assert.Empty(t, shapes.SR)
	assert.Empty(t, shapes.Flags)
	assert.Empty(t, shapes.HS)
	require.Len(t, shapes.Fibonacci, 7)
	assert.Len(t, shapes.Fibonacci["0.618"], len(s))
	assert.Equal(t, s[149].High, shapes.Fibonacci["1"][0].Value)
	assert.Equal(t, s[50].Low, shapes.Fibonacci["0"][0].Value)
}

func TestBuildShapes_Disabled(t *testing.T) {
	shapes, err := BuildShapes(ramp(150), model.ShapeFlags{})
	require.NoError(t, err)
	assert.NotNil(t, shapes.SR)
	assert.NotNil(t, shapes.Fibonacci)
	assert.Empty(t, shapes.Fibonacci)
}

func TestInsights_Ramp(t *testing.T) {
	in := Insights(ramp(150))
	require.NotNil(t, in)
	assert.Empty(t, in.KeyLevels)
	assert.Equal(t, 200.0, in.PointOfControl)
	assert.Zero(t, in.Trades)
}
