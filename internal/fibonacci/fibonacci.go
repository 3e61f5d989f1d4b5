// Package fibonacci emits signals at retracement levels of the rolling
// high/low range.
package fibonacci

import (
	"strconv"

	"PatternScout/internal/calculator"
	"PatternScout/internal/model"
)

// DefaultLookback is the rolling range length in candles.
const DefaultLookback = 100

// Ratios are the retracement levels, low to high.
var Ratios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// Active holds the indices into Ratios that may signal: 0.382 and 0.5. Each
// is sold at the next ratio up.
var Active = []int{2, 3}

// Event is a single level touch.
type Event struct {
	Index     int
	Ratio     float64
	Price     float64
	Direction model.Direction
}

// Prices projects Ratios onto the range [low, high].
func Prices(low, high float64) []float64 {
	diff := high - low
	out := make([]float64, len(Ratios))
	for k, r := range Ratios {
		out[k] = low + r*diff
	}
	return out
}

// Scan walks the series from index lookback. An active level that is not
// armed buys when the candle's low reaches it and becomes armed; an armed
// level sells when the high reaches the next ratio and is disarmed. A level
// never buys twice without a sell in between.
func Scan(s model.Series, lookback int) []Event {
	if lookback <= 0 || len(s) < lookback {
		return nil
	}
	hi := calculator.RollingMax(s.Highs(), lookback)
	lo := calculator.RollingMin(s.Lows(), lookback)

	armed := make([]bool, len(Ratios))
	var events []Event
	for i := lookback; i < len(s); i++ {
		if !calculator.Valid(hi[i]) || !calculator.Valid(lo[i]) {
			continue
		}
		prices := Prices(lo[i], hi[i])
		for _, j := range Active {
			if s[i].Low <= prices[j] && !armed[j] {
				armed[j] = true
				events = append(events, Event{Index: i, Ratio: Ratios[j], Price: prices[j], Direction: model.Buy})
			}
			if j+1 < len(Ratios) && s[i].High >= prices[j+1] && armed[j] {
				armed[j] = false
				events = append(events, Event{Index: i, Ratio: Ratios[j], Price: prices[j+1], Direction: model.Sell})
			}
		}
	}
	return events
}

// Signals folds Scan events into a per-candle column.
func Signals(s model.Series, lookback int) model.Column {
	col := model.NewColumn(len(s))
	for _, e := range Scan(s, lookback) {
		if e.Direction == model.Buy {
			col.Buy[e.Index] = true
		} else {
			col.Sell[e.Index] = true
		}
	}
	return col
}

// Lines projects every ratio of the last full window across all timestamps,
// keyed by the ratio as text ("0.382"). A series shorter than lookback has
// no lines.
func Lines(s model.Series, lookback int) map[string][]model.LinePoint {
	if lookback <= 0 || len(s) < lookback {
		return nil
	}
	window := s[len(s)-lookback:]
	prices := Prices(calculator.Min(window.Lows()), calculator.Max(window.Highs()))

	out := make(map[string][]model.LinePoint, len(Ratios))
	for k, r := range Ratios {
		pts := make([]model.LinePoint, len(s))
		for i, c := range s {
			pts[i] = model.LinePoint{Time: c.Timestamp, Value: prices[k]}
		}
		out[strconv.FormatFloat(r, 'f', -1, 64)] = pts
	}
	return out
}
