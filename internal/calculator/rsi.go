package calculator

import (
	"github.com/markcheno/go-talib"
)

// RSI averages gains and losses over a plain period-bar window:
// rs = avgGain / (avgLoss + 1e-9). Indices before period are NaN.
func RSI(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}
	avgGain := talib.Sma(gains, period)
	avgLoss := talib.Sma(losses, period)
	for j := period - 1; j < len(gains); j++ {
		rs := avgGain[j] / (avgLoss[j] + 1e-9)
		out[j+1] = 100 - 100/(1+rs)
	}
	return out
}

// MomentumRSI is a short, unsmoothed RSI over the lookback closes ending at index.
// Averages are taken over gaining and losing bars separately and default to 0.01
// when a side has no bars. Returns 0 when index < lookback.
func MomentumRSI(closes []float64, index, lookback int) float64 {
	if index < lookback || index >= len(closes) {
		return 0
	}
	var gainSum, lossSum float64
	var gains, losses int
	for i := index - lookback + 1; i <= index; i++ {
		if i <= 0 {
			continue
		}
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
			gains++
		} else if change < 0 {
			lossSum -= change
			losses++
		}
	}
	avgGain, avgLoss := 0.01, 0.01
	if gains > 0 {
		avgGain = gainSum / float64(gains)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
