package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestShortInputsAreAllNaN(t *testing.T) {
	short := []float64{1, 2}
	for name, out := range map[string][]float64{
		"sma": SMA(short, 5),
		"rsi": RSI(short, 14),
		"max": RollingMax(short, 5),
		"min": RollingMin(short, 5),
		"atr": ATR(short, short, short, 14),
	} {
		require.Len(t, out, 2, name)
		for _, v := range out {
			assert.False(t, Valid(v), name)
		}
	}
}

func TestRollingRange(t *testing.T) {
	values := []float64{1, 3, 2, 5, 4}
	hi := RollingMax(values, 2)
	lo := RollingMin(values, 2)
	assert.False(t, Valid(hi[0]))
	assert.Equal(t, []float64{3, 3, 5, 5}, hi[1:])
	assert.Equal(t, []float64{1, 2, 2, 4}, lo[1:])
}

func TestTrueRangeAndATR(t *testing.T) {
	high := []float64{10, 12, 11}
	low := []float64{8, 9, 7}
	close := []float64{9, 11, 8}

	tr := TrueRange(high, low, close)
	assert.InDelta(t, 2.0, tr[0], 1e-9)
	assert.InDelta(t, 3.0, tr[1], 1e-9)
	assert.InDelta(t, 4.0, tr[2], 1e-9)

	atr := ATR(high, low, close, 2)
	assert.False(t, Valid(atr[0]))
	assert.InDelta(t, 2.5, atr[1], 1e-9)
	assert.InDelta(t, 3.5, atr[2], 1e-9)
}

func TestRSI_StrictlyRising(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := RSI(closes, 14)
	for i := 0; i < 14; i++ {
		assert.False(t, Valid(rsi[i]))
	}
	for i := 14; i < len(rsi); i++ {
		assert.InDelta(t, 100.0, rsi[i], 1e-6)
	}
}

func TestMomentumRSI(t *testing.T) {
	closes := []float64{10, 11, 10, 12, 13, 12}
	// changes over the last 5 bars: +1 -1 +2 +1 -1
	// avg gain 4/3, avg loss 1
	want := 100 - 100/(1+4.0/3.0)
	assert.InDelta(t, want, MomentumRSI(closes, 5, 5), 1e-9)
	assert.Zero(t, MomentumRSI(closes, 3, 5))

	flat := []float64{5, 5, 5, 5, 5, 5}
	assert.InDelta(t, 50.0, MomentumRSI(flat, 5, 5), 1e-9)
}

func TestArgExtremes(t *testing.T) {
	values := []float64{1, 4, 4, 0, 0}
	assert.Equal(t, 1, ArgMax(values))
	assert.Equal(t, 3, ArgMin(values))
	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, 4.0, Max(values))
	assert.Equal(t, 0.0, Min(values))
}

func TestStochastic(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 10
		low[i] = 0
		close[i] = 5
	}
	close[n-1] = 10

	k, d := Stochastic(high, low, close, 14, 3)
	assert.False(t, Valid(k[12]))
	assert.InDelta(t, 50.0, k[13], 1e-6)
	assert.False(t, Valid(d[14]))
	assert.InDelta(t, 50.0, d[15], 1e-6)
	assert.InDelta(t, 100.0, k[n-1], 1e-6)
	assert.InDelta(t, 200.0/3.0, d[n-1], 1e-6)
}

// sine is 100 + 10*sin(i/3) + 0.2*i.
func sine(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3) + 0.2*float64(i)
	}
	return out
}

func TestRSI_PlainAverages(t *testing.T) {
	rsi := RSI(sine(40), 14)
	assert.False(t, Valid(rsi[13]))
	assert.InDelta(t, 37.645850, rsi[14], 1e-5)
	assert.InDelta(t, 46.064209, rsi[20], 1e-5)
	assert.InDelta(t, 58.135328, rsi[30], 1e-5)
	assert.InDelta(t, 47.136489, rsi[39], 1e-5)
}

func TestEMA_AdjustedWeights(t *testing.T) {
	closes := sine(40)
	ema9 := EMA(closes, 9)
	ema21 := EMA(closes, 21)

	// Defined from the first close.
	assert.Equal(t, closes[0], ema9[0])
	assert.InDelta(t, 101.928859, ema9[1], 1e-5)
	assert.InDelta(t, 108.082882, ema9[8], 1e-5)
	assert.InDelta(t, 104.893313, ema9[39], 1e-5)
	assert.InDelta(t, 101.818639, ema21[1], 1e-5)
	assert.InDelta(t, 104.234898, ema21[39], 1e-5)
}

func TestEWM(t *testing.T) {
	// span 3: alpha = 0.5
	assert.Equal(t, []float64{2, 3, 3.5}, EWM([]float64{2, 4, 4}, 3))
	assert.Empty(t, EWM(nil, 3))
}

func TestMACD_SeededFromFirstClose(t *testing.T) {
	macd, signal := MACD(sine(40), 12, 26, 9)
	assert.Zero(t, macd[0])
	assert.Zero(t, signal[0])
	assert.InDelta(t, 0.276964, macd[1], 1e-5)
	assert.InDelta(t, 0.055393, signal[1], 1e-5)
	assert.InDelta(t, 1.315113, macd[30], 1e-5)
	assert.InDelta(t, 0.512751, macd[39], 1e-5)
	assert.InDelta(t, -0.092038, signal[39], 1e-5)
}

func TestBollingerBands_SampleStdAndPartialWindows(t *testing.T) {
	closes := sine(40)
	upper, middle, lower := BollingerBands(closes, 20, 2)

	assert.Equal(t, closes[0], middle[0])
	assert.False(t, Valid(upper[0]))
	assert.False(t, Valid(lower[0]))

	assert.InDelta(t, 106.646048, upper[1], 1e-5)
	assert.InDelta(t, 106.757302, middle[5], 1e-5)
	assert.InDelta(t, 115.398917, upper[5], 1e-5)
	assert.InDelta(t, 101.914400, middle[19], 1e-5)
	assert.InDelta(t, 114.450856, upper[19], 1e-5)
	assert.InDelta(t, 118.957011, upper[39], 1e-5)
	assert.InDelta(t, 93.299356, lower[39], 1e-5)
}
