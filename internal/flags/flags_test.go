package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
)

// pole from 7 to 17, three-bar pullback, then a bar that closes up
var bullTrendline = []float64{10, 9, 8, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 16.5, 15.8, 16.0, 16.4, 16.8, 17.5, 18, 18.5, 19, 19.5}

// same pole with a zig-zag flag that ends above the falling upper line
var bullPIPs = []float64{10, 9, 8, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 15.8, 16.6, 15.6, 16.0, 16.5}

func mirror(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = 40 - v
	}
	return out
}

func toSeries(closes []float64) model.Series {
	s := make(model.Series, len(closes))
	for i, c := range closes {
		s[i] = model.Candle{Timestamp: 1_700_000_000 + int64(i)*3600, Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return s
}

func TestFind_RejectsSmallOrder(t *testing.T) {
	_, err := FindPIPs(bullPIPs, 2)
	assert.True(t, errors.Is(err, errors.ErrInvalidOrder))

	_, err = FindTrendline(bullPIPs, 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidOrder))

	_, err = Signals(toSeries(bullPIPs), 1)
	assert.Error(t, err)
}

func TestFindTrendline_BullFlag(t *testing.T) {
	got, err := FindTrendline(bullTrendline, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, BullFlag, p.Kind())
	assert.Equal(t, 3, p.BaseX)
	assert.Equal(t, 13, p.TipX)
	assert.Equal(t, 16, p.ConfX)
	assert.Equal(t, 3, p.FlagWidth)
	assert.Equal(t, 10, p.PoleWidth)
	assert.InDelta(t, 10, p.PoleHeight, 1e-9)
	assert.InDelta(t, 1.2, p.FlagHeight, 1e-9)
	assert.Less(t, p.Resist.Slope, 0.0)
	assert.False(t, p.Pennant)
}

func TestFindTrendline_BearFlag(t *testing.T) {
	got, err := FindTrendline(mirror(bullTrendline), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, BearFlag, p.Kind())
	assert.Equal(t, 13, p.TipX)
	assert.Equal(t, 16, p.ConfX)
	assert.Greater(t, p.Support.Slope, 0.0)
}

func TestFindPIPs_BullFlag(t *testing.T) {
	got, err := FindPIPs(bullPIPs, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, BullFlag, p.Kind())
	assert.Equal(t, 13, p.TipX)
	assert.Equal(t, 18, p.ConfX)
	assert.Equal(t, 5, p.FlagWidth)
	assert.InDelta(t, -0.2, p.Resist.Slope, 1e-9)
	assert.InDelta(t, 17, p.Resist.Intercept, 1e-9)
	assert.InDelta(t, -0.1, p.Support.Slope, 1e-9)
	assert.InDelta(t, 15.9, p.Support.Intercept, 1e-9)
	assert.True(t, Accept(p, 12.6))
}

func TestFindPIPs_BearFlag(t *testing.T) {
	got, err := FindPIPs(mirror(bullPIPs), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, BearFlag, got[0].Kind())
	assert.Equal(t, 18, got[0].ConfX)
}

func TestFind_MonotonicSeriesHasNoPatterns(t *testing.T) {
	data := make([]float64, 200)
	for i := range data {
		data[i] = 100 + float64(i)
	}
	got, err := FindPIPs(data, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FindTrendline(data, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAccept(t *testing.T) {
	base := Pattern{PoleHeight: 10, PoleWidth: 10, FlagHeight: 2, FlagWidth: 4}
	assert.True(t, Accept(base, 100))

	tests := []struct {
		name   string
		mutate func(p *Pattern)
		mean   float64
	}{
		{"pole too short for price", func(p *Pattern) {}, 1000},
		{"pole too narrow", func(p *Pattern) { p.PoleWidth = 4; p.FlagWidth = 1 }, 100},
		{"flag too tall", func(p *Pattern) { p.FlagHeight = 6 }, 100},
		{"flag too wide", func(p *Pattern) { p.FlagWidth = 8 }, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			assert.False(t, Accept(p, tt.mean))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bull_flag", Pattern{Bull: true}.Kind().String())
	assert.Equal(t, "bull_pennant", Pattern{Bull: true, Pennant: true}.Kind().String())
	assert.Equal(t, "bear_flag", Pattern{}.Kind().String())
	assert.Equal(t, "bear_pennant", Pattern{Pennant: true}.Kind().String())
}

func TestShapes(t *testing.T) {
	s := toSeries(bullTrendline)
	patterns, err := Detect(s, 3, VariantTrendline)
	require.NoError(t, err)

	shapes := Shapes(s, patterns)
	require.Len(t, shapes, 2)
	upper, lower := shapes[0], shapes[1]
	assert.Equal(t, "bull_flag", upper.Type)
	assert.Equal(t, float64(s[13].Timestamp), upper.Points[0])
	assert.Equal(t, float64(s[16].Timestamp), upper.Points[2])
	p := patterns[0]
	assert.InDelta(t, p.Resist.Intercept+p.Resist.Slope*3, upper.Points[3], 1e-9)
	assert.InDelta(t, p.Support.Intercept, lower.Points[1], 1e-9)
}

func TestShapes_GroupedByKind(t *testing.T) {
	s := toSeries(bullTrendline)
	patterns := []Pattern{
		{Bull: false, Pennant: true, TipX: 1, ConfX: 2},
		{Bull: true, Pennant: true, TipX: 3, ConfX: 4},
		{Bull: false, Pennant: false, TipX: 5, ConfX: 6},
		{Bull: true, Pennant: false, TipX: 7, ConfX: 8},
		{Bull: true, Pennant: false, TipX: 9, ConfX: 10},
	}

	shapes := Shapes(s, patterns)
	require.Len(t, shapes, 10)
	var kinds []string
	var starts []float64
	for i := 0; i < len(shapes); i += 2 {
		assert.Equal(t, shapes[i].Type, shapes[i+1].Type)
		kinds = append(kinds, shapes[i].Type)
		starts = append(starts, shapes[i].Points[0])
	}
	assert.Equal(t, []string{"bull_flag", "bull_flag", "bear_flag", "bull_pennant", "bear_pennant"}, kinds)
	// confirmation order is kept within a kind
	assert.Equal(t, float64(s[7].Timestamp), starts[0])
	assert.Equal(t, float64(s[9].Timestamp), starts[1])
	// the caller's slice is left alone
	assert.False(t, patterns[0].Bull)
}

func TestDetect_PIPsAppliesAccept(t *testing.T) {
	s := toSeries(bullPIPs)
	got, err := Detect(s, 3, VariantPIPs)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// a pole that is small next to the price level is dropped
	lifted := make([]float64, len(bullPIPs))
	for i, v := range bullPIPs {
		lifted[i] = v + 1000
	}
	got, err = Detect(toSeries(lifted), 3, VariantPIPs)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSignals(t *testing.T) {
	col, err := Signals(toSeries(bullTrendline), 3)
	require.NoError(t, err)
	for i := range col.Buy {
		assert.Equal(t, i == 16, col.Buy[i], "buy at %d", i)
		assert.False(t, col.Sell[i])
	}

	col, err = Signals(toSeries(mirror(bullTrendline)), 3)
	require.NoError(t, err)
	for i := range col.Sell {
		assert.Equal(t, i == 16, col.Sell[i], "sell at %d", i)
		assert.False(t, col.Buy[i])
	}
}

func TestSignals_SkipsPatternsAtTheEnd(t *testing.T) {
	// cut the series one candle after confirmation
	col, err := Signals(toSeries(bullTrendline[:18]), 3)
	require.NoError(t, err)
	for _, b := range col.Buy {
		assert.False(t, b)
	}
}
