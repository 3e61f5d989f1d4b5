package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA returns the simple moving average of values. Indices before period-1 are NaN.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskWarmup(talib.Sma(values, period), period-1)
}

// EMA returns the span-weighted exponential moving average of values with
// adjusted weights: each output is the (1-alpha)^k weighted mean of every
// value seen so far, alpha = 2/(span+1). It is defined from the first value.
func EMA(values []float64, span int) []float64 {
	if span <= 0 {
		return nanSeries(len(values))
	}
	decay := 1 - 2/float64(span+1)
	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}

// EWM returns the recursive exponential moving average seeded with the first
// value: y[0] = x[0], y[i] = alpha*x[i] + (1-alpha)*y[i-1].
func EWM(values []float64, span int) []float64 {
	if span <= 0 {
		return nanSeries(len(values))
	}
	alpha := 2 / float64(span+1)
	out := make([]float64, len(values))
	for i, v := range values {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = alpha*v + (1-alpha)*out[i-1]
	}
	return out
}

// Mean returns the arithmetic mean of values, or NaN when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Valid reports whether v is a computed value rather than a warm-up placeholder.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// maskWarmup replaces the first lookback entries of a talib output with NaN so
// comparisons against them are always false.
func maskWarmup(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}
