package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScout/pkg/errors"
)

func TestSeries_NearestIndex(t *testing.T) {
	s := Series{{Timestamp: 100}, {Timestamp: 200}, {Timestamp: 300}}

	tests := []struct {
		name string
		ts   int64
		want int
	}{
		{"exact", 200, 1},
		{"before first", 10, 0},
		{"after last", 900, 2},
		{"closer to next", 180, 1},
		{"closer to previous", 120, 0},
		{"tie picks later", 150, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.NearestIndex(tt.ts))
		})
	}

	assert.Equal(t, -1, Series{}.NearestIndex(5))
}

func TestSeries_Columns(t *testing.T) {
	s := Series{
		{Timestamp: 1, Open: 1, High: 3, Low: 0.5, Close: 2, Volume: 10},
		{Timestamp: 2, Open: 2, High: 4, Low: 1.5, Close: 3, Volume: 20},
	}
	assert.Equal(t, []float64{2, 3}, s.Closes())
	assert.Equal(t, []float64{1, 2}, s.Opens())
	assert.Equal(t, []float64{3, 4}, s.Highs())
	assert.Equal(t, []float64{0.5, 1.5}, s.Lows())
	assert.Equal(t, []float64{10, 20}, s.Volumes())
	assert.Equal(t, []int64{1, 2}, s.Timestamps())
	assert.InDelta(t, 2.5, s.MeanClose(), 1e-12)
	assert.Zero(t, Series{}.MeanClose())
}

func TestReport_Signals(t *testing.T) {
	r := &Report{Buy: []int64{10, 40}, Sell: []int64{20, 30}}
	got := r.Signals()
	require.Len(t, got, 4)
	assert.Equal(t, Signal{Timestamp: 10, Direction: Buy}, got[0])
	assert.Equal(t, Signal{Timestamp: 20, Direction: Sell}, got[1])
	assert.Equal(t, Signal{Timestamp: 30, Direction: Sell}, got[2])
	assert.Equal(t, Signal{Timestamp: 40, Direction: Buy}, got[3])
}

func TestAnalysisConfig_Validate(t *testing.T) {
	ok := AnalysisConfig{Candles: true, Confluence: Confluence{Buy: 1, Sell: 1}}
	require.NoError(t, ok.Validate())
	assert.Equal(t, []string{DetectorCandles}, ok.Enabled())

	none := AnalysisConfig{Confluence: Confluence{Buy: 1, Sell: 1}}
	err := none.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	zero := AnalysisConfig{Indicators: IndicatorFlags{RSI: true}}
	err = zero.Validate()
	require.Error(t, err)
	var multi *errors.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 2)

	bad := ok
	bad.Shapes.FlagVariant = "wedge"
	require.Error(t, bad.Validate())

	pips := ok
	pips.Shapes.FlagVariant = "pips"
	assert.NoError(t, pips.Validate())
}
