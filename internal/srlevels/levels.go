// Package srlevels clusters pivot highs and lows into support and resistance
// levels and scores candles that react at those levels.
package srlevels

import (
	"math"
	"sort"

	"PatternScout/internal/extrema"
	"PatternScout/internal/model"
)

// Params controls level extraction and signal scoring.
type Params struct {
	N1, N2       int
	TolerancePct float64
	MinTouches   int
	TopK         int
	ATRPeriod    int
}

// DefaultParams returns the settings used by the analysis engine.
func DefaultParams() Params {
	return Params{N1: 5, N2: 5, TolerancePct: 0.3, MinTouches: 2, TopK: 8, ATRPeriod: 14}
}

// Touch is one pivot price and the volume traded on that candle.
type Touch struct {
	Price  float64
	Volume float64
}

// Level is a cluster of touches at roughly the same price.
type Level struct {
	Price    float64 `json:"price"`
	Touches  int     `json:"touches"`
	Volume   float64 `json:"volume"`
	Strength float64 `json:"strength"`
}

// Pivots collects support touches from pivot lows and resistance touches from
// pivot highs. Candles that are both are ambiguous and skipped.
func Pivots(s model.Series, n1, n2 int) (supports, resistances []Touch) {
	for i := range s {
		switch extrema.IsPivot(s, i, n1, n2) {
		case extrema.Support:
			supports = append(supports, Touch{Price: s[i].Low, Volume: s[i].Volume})
		case extrema.Resistance:
			resistances = append(resistances, Touch{Price: s[i].High, Volume: s[i].Volume})
		}
	}
	return supports, resistances
}

// Group sorts touches by price and sweeps them into clusters. A touch joins
// the current cluster while it is within tolerancePct of the cluster's running
// mean. Clusters with fewer than minTouches touches are dropped. The result is
// in ascending price order.
func Group(touches []Touch, tolerancePct float64, minTouches int) []Level {
	if len(touches) == 0 {
		return nil
	}
	sorted := append([]Touch(nil), touches...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Price < sorted[b].Price })

	var (
		out      []Level
		sum, vol float64
		count    int
	)
	flush := func() {
		if count >= minTouches {
			out = append(out, Level{
				Price:    sum / float64(count),
				Touches:  count,
				Volume:   vol,
				Strength: float64(count) * vol,
			})
		}
	}

	sum, vol, count = sorted[0].Price, sorted[0].Volume, 1
	for _, t := range sorted[1:] {
		avg := sum / float64(count)
		if math.Abs(t.Price-avg)/avg*100 < tolerancePct {
			sum += t.Price
			vol += t.Volume
			count++
			continue
		}
		flush()
		sum, vol, count = t.Price, t.Volume, 1
	}
	flush()
	return out
}

// strongest orders levels by strength, highest first, and keeps k of them.
func strongest(levels []Level, k int) []Level {
	out := append([]Level(nil), levels...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Strength > out[b].Strength })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Extract returns the top-K support and resistance levels of s.
func Extract(s model.Series, p Params) (supports, resistances []Level) {
	sup, res := Pivots(s, p.N1, p.N2)
	return strongest(Group(sup, p.TolerancePct, p.MinTouches), p.TopK),
		strongest(Group(res, p.TolerancePct, p.MinTouches), p.TopK)
}

// Levels returns every clustered support price followed by every clustered
// resistance price, each in ascending order, for plotting.
func Levels(s model.Series, p Params) []float64 {
	sup, res := Pivots(s, p.N1, p.N2)
	var out []float64
	for _, l := range Group(sup, p.TolerancePct, p.MinTouches) {
		out = append(out, l.Price)
	}
	for _, l := range Group(res, p.TolerancePct, p.MinTouches) {
		out = append(out, l.Price)
	}
	return out
}

// FilterSignificant keeps up to maxLevels levels, nearest to price first,
// skipping any level within minDistancePct of one already kept. The result is
// sorted ascending.
func FilterSignificant(levels []float64, price, minDistancePct float64, maxLevels int) []float64 {
	if len(levels) == 0 || price == 0 {
		return nil
	}
	byDistance := append([]float64(nil), levels...)
	sort.SliceStable(byDistance, func(a, b int) bool {
		return math.Abs(byDistance[a]-price) < math.Abs(byDistance[b]-price)
	})

	var kept []float64
	for _, lvl := range byDistance {
		if len(kept) >= maxLevels {
			break
		}
		tooClose := false
		for _, k := range kept {
			if math.Abs(lvl-k)/k*100 < minDistancePct {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, lvl)
		}
	}
	sort.Float64s(kept)
	return kept
}
