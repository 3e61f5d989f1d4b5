// Package indicators turns classic technical indicators into buy/sell columns.
package indicators

import (
	"PatternScout/internal/calculator"
	"PatternScout/internal/model"
)

// Default periods.
const (
	BBPeriod = 20
	BBStdDev = 2.0

	EMAShort = 9
	EMALong  = 21

	RSIPeriod     = 14
	RSIOversold   = 30.0
	RSIOverbought = 70.0

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	StochK          = 14
	StochD          = 3
	StochOversold   = 20.0
	StochOverbought = 80.0
)

// Bollinger buys when the close is at or below the lower band, bounces back
// above it, or crosses the middle band upward. Sell mirrors it on the upper
// band. Only the first bar, whose outer bands are undefined, never fires.
func Bollinger(s model.Series, period int, numStd float64) model.Column {
	closes := s.Closes()
	upper, middle, lower := calculator.BollingerBands(closes, period, numStd)
	col := model.NewColumn(len(s))

	for i := 1; i < len(closes); i++ {
		if !calculator.Valid(upper[i]) || !calculator.Valid(lower[i]) {
			continue
		}
		prev, cur := closes[i-1], closes[i]

		switch {
		case cur <= lower[i]:
			col.Buy[i] = true
		case prev <= lower[i-1] && cur > lower[i]:
			col.Buy[i] = true
		case prev < middle[i-1] && cur > middle[i]:
			col.Buy[i] = true
		}

		switch {
		case cur >= upper[i]:
			col.Sell[i] = true
		case prev >= upper[i-1] && cur < upper[i]:
			col.Sell[i] = true
		case prev > middle[i-1] && cur < middle[i]:
			col.Sell[i] = true
		}
	}
	return col
}

// EMACrossover marks the bar where the short EMA crosses the long one.
func EMACrossover(s model.Series, short, long int) model.Column {
	closes := s.Closes()
	return crossover(calculator.EMA(closes, short), calculator.EMA(closes, long))
}

// RSI marks oversold closes as buys and overbought closes as sells.
func RSI(s model.Series, period int, oversold, overbought float64) model.Column {
	rsi := calculator.RSI(s.Closes(), period)
	col := model.NewColumn(len(s))
	for i, v := range rsi {
		if !calculator.Valid(v) {
			continue
		}
		col.Buy[i] = v < oversold
		col.Sell[i] = v > overbought
	}
	return col
}

// MACD marks signal-line crossovers.
func MACD(s model.Series, fast, slow, signal int) model.Column {
	macd, sig := calculator.MACD(s.Closes(), fast, slow, signal)
	return crossover(macd, sig)
}

// Stochastic buys when %K is oversold and above %D, and sells when %K is
// overbought and below %D.
func Stochastic(s model.Series, kPeriod, dPeriod int, oversold, overbought float64) model.Column {
	k, d := calculator.Stochastic(s.Highs(), s.Lows(), s.Closes(), kPeriod, dPeriod)
	col := model.NewColumn(len(s))
	for i := range k {
		if !calculator.Valid(k[i]) || !calculator.Valid(d[i]) {
			continue
		}
		col.Buy[i] = k[i] < oversold && k[i] > d[i]
		col.Sell[i] = k[i] > overbought && k[i] < d[i]
	}
	return col
}

// crossover marks a buy where fast moves above slow and a sell where it moves
// below. Both bars of the cross must be defined.
func crossover(fast, slow []float64) model.Column {
	col := model.NewColumn(len(fast))
	for i := 1; i < len(fast); i++ {
		if !calculator.Valid(fast[i]) || !calculator.Valid(slow[i]) ||
			!calculator.Valid(fast[i-1]) || !calculator.Valid(slow[i-1]) {
			continue
		}
		col.Buy[i] = fast[i] > slow[i] && fast[i-1] <= slow[i-1]
		col.Sell[i] = fast[i] < slow[i] && fast[i-1] >= slow[i-1]
	}
	return col
}
