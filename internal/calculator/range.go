package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RollingMax returns the highest value of each trailing window of period values.
func RollingMax(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Max(values, period), period-1)
}

// RollingMin returns the lowest value of each trailing window of period values.
func RollingMin(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Min(values, period), period-1)
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|) per bar.
// The first bar has no previous close and uses high-low.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 {
		return nil
	}
	var tr []float64
	if n >= 2 {
		tr = talib.TRange(high, low, close)
	} else {
		tr = make([]float64, n)
	}
	tr[0] = high[0] - low[0]
	return tr
}

// ATR is the rolling mean of the true range over period bars.
func ATR(high, low, close []float64, period int) []float64 {
	return SMA(TrueRange(high, low, close), period)
}

// ArgMax returns the index of the first maximum of values, or -1 when empty.
func ArgMax(values []float64) int {
	best := -1
	bestV := math.Inf(-1)
	for i, v := range values {
		if best == -1 || v > bestV {
			best, bestV = i, v
		}
	}
	return best
}

// ArgMin returns the index of the first minimum of values, or -1 when empty.
func ArgMin(values []float64) int {
	best := -1
	bestV := math.Inf(1)
	for i, v := range values {
		if best == -1 || v < bestV {
			best, bestV = i, v
		}
	}
	return best
}

// Max returns the largest value, or -Inf when empty.
func Max(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest value, or +Inf when empty.
func Min(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}
