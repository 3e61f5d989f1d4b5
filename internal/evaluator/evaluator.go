// Package evaluator scores signals by what the market did a fixed number of
// candles later.
package evaluator

import (
	"github.com/shopspring/decimal"

	"PatternScout/internal/model"
)

// DefaultFuture is the number of candles between entry and exit.
const DefaultFuture = 10

// Evaluate checks each signal timestamp against the series. The entry is the
// open of the nearest candle and the exit the close future candles later. A
// buy hits when the exit is above the entry, a sell when it is below. Signals
// whose exit falls outside the series are not counted.
func Evaluate(s model.Series, signals []int64, dir model.Direction, future int) model.EvaluationResult {
	var res model.EvaluationResult
	for _, ts := range signals {
		idx := s.NearestIndex(ts)
		if idx < 0 || idx+future >= len(s) {
			continue
		}
		res.Total++

		entry, exit := s[idx].Open, s[idx+future].Close
		hit := exit > entry
		if dir == model.Sell {
			hit = exit < entry
		}
		if hit {
			res.Hits++
		} else {
			res.Misses++
		}
	}
	res.Assertiveness = Assertiveness(res.Hits, res.Total)
	return res
}

// Assertiveness is hits/total as a percentage rounded half away from zero to
// two decimals, or 0 when there is nothing to score.
func Assertiveness(hits, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(hits)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return pct.Round(2).InexactFloat64()
}
