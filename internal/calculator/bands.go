package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// BollingerBands returns upper, middle and lower bands of an SMA(period)
// envelope at numStd sample standard deviations. The first period-1 bars use
// the partial window available so far; a one-value window has a middle band
// but NaN outer bands.
func BollingerBands(closes []float64, period int, numStd float64) (upper, middle, lower []float64) {
	n := len(closes)
	upper, middle, lower = nanSeries(n), nanSeries(n), nanSeries(n)
	if period <= 0 {
		return upper, middle, lower
	}

	var mean, variance []float64
	if n >= period {
		mean = talib.Sma(closes, period)
		variance = talib.Var(closes, period)
	}
	for i := 0; i < n; i++ {
		size := period
		var m, v float64
		if i >= period-1 {
			m, v = mean[i], variance[i]
		} else {
			size = i + 1
			m, v = meanVar(closes[:size])
		}
		middle[i] = m
		if size < 2 {
			continue
		}
		// population -> sample variance
		sd := math.Sqrt(math.Max(v, 0) * float64(size) / float64(size-1))
		upper[i] = m + numStd*sd
		lower[i] = m - numStd*sd
	}
	return upper, middle, lower
}

func meanVar(values []float64) (mean, variance float64) {
	mean = Mean(values)
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, variance / float64(len(values))
}

// MACD returns the MACD line (EWM(fast) - EWM(slow)) and its EWM(signal)
// line. Both are defined from the first close.
func MACD(closes []float64, fast, slow, signal int) (macd, signalLine []float64) {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return nanSeries(len(closes)), nanSeries(len(closes))
	}
	fastEMA, slowEMA := EWM(closes, fast), EWM(closes, slow)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	return macd, EWM(macd, signal)
}

// Stochastic returns the fast %K over kPeriod and its SMA(dPeriod) as %D.
func Stochastic(high, low, close []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(close)
	k = nanSeries(n)
	if kPeriod <= 0 || dPeriod <= 0 || n < kPeriod {
		return k, nanSeries(n)
	}
	hh := RollingMax(high, kPeriod)
	ll := RollingMin(low, kPeriod)
	for i := kPeriod - 1; i < n; i++ {
		k[i] = 100 * (close[i] - ll[i]) / (hh[i] - ll[i] + 1e-9)
	}
	d = nanSeries(n)
	for i := kPeriod - 1 + dPeriod - 1; i < n; i++ {
		d[i] = Mean(k[i-dPeriod+1 : i+1])
	}
	return k, d
}
