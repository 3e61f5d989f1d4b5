package strategy

import (
	"PatternScout/internal/candles"
	"PatternScout/internal/fibonacci"
	"PatternScout/internal/flags"
	"PatternScout/internal/hs"
	"PatternScout/internal/indicators"
	"PatternScout/internal/model"
	"PatternScout/internal/srlevels"
)

// detectFunc computes one detector's per-candle column. It must not retain
// or modify the series.
type detectFunc func(s model.Series) (model.Column, error)

// detectors maps detector names to their default-parameter implementation.
var detectors = map[string]detectFunc{
	model.DetectorCandles: infallible(candles.Signals),
	model.DetectorSR: func(s model.Series) (model.Column, error) {
		return srlevels.Signals(s, srlevels.DefaultParams()).Column, nil
	},
	model.DetectorFlags: func(s model.Series) (model.Column, error) {
		return flags.Signals(s, flags.DefaultOrder)
	},
	model.DetectorFibonacci: func(s model.Series) (model.Column, error) {
		return fibonacci.Signals(s, fibonacci.DefaultLookback), nil
	},
	model.DetectorHS: func(s model.Series) (model.Column, error) {
		return hs.Signals(s, hs.DefaultOrder)
	},
	model.DetectorBB: func(s model.Series) (model.Column, error) {
		return indicators.Bollinger(s, indicators.BBPeriod, indicators.BBStdDev), nil
	},
	model.DetectorEMA: func(s model.Series) (model.Column, error) {
		return indicators.EMACrossover(s, indicators.EMAShort, indicators.EMALong), nil
	},
	model.DetectorRSI: func(s model.Series) (model.Column, error) {
		return indicators.RSI(s, indicators.RSIPeriod, indicators.RSIOversold, indicators.RSIOverbought), nil
	},
	model.DetectorMACD: func(s model.Series) (model.Column, error) {
		return indicators.MACD(s, indicators.MACDFast, indicators.MACDSlow, indicators.MACDSignal), nil
	},
	model.DetectorStochastic: func(s model.Series) (model.Column, error) {
		return indicators.Stochastic(s, indicators.StochK, indicators.StochD,
			indicators.StochOversold, indicators.StochOverbought), nil
	},
}

func infallible(f func(model.Series) model.Column) detectFunc {
	return func(s model.Series) (model.Column, error) { return f(s), nil }
}
