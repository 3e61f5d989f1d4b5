package flags

import (
	"sort"

	"PatternScout/internal/model"
)

// Variant selects the flag scanning strategy used for plotted shapes.
type Variant string

const (
	VariantTrendline Variant = "trendline"
	VariantPIPs      Variant = "pips"
)

// Detect runs the chosen variant over the closes of s. PIP patterns are
// passed through Accept; trendline patterns are returned as found.
func Detect(s model.Series, order int, variant Variant) ([]Pattern, error) {
	closes := s.Closes()
	if variant == VariantPIPs {
		found, err := FindPIPs(closes, order)
		if err != nil {
			return nil, err
		}
		mean := s.MeanClose()
		out := found[:0]
		for _, p := range found {
			if Accept(p, mean) {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return FindTrendline(closes, order)
}

// Shapes turns patterns into two plottable segments each: the upper
// (resistance) line first, then the lower (support) line, both running from
// the pole tip to the confirmation candle.
func Shapes(s model.Series, patterns []Pattern) []model.Shape {
	ordered := make([]Pattern, len(patterns))
	copy(ordered, patterns)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Kind() < ordered[j].Kind() })

	out := make([]model.Shape, 0, 2*len(ordered))
	for _, p := range ordered {
		start := float64(s[p.TipX].Timestamp)
		end := float64(s[p.ConfX].Timestamp)
		w := float64(p.FlagWidth)
		kind := p.Kind().String()
		out = append(out,
			model.Shape{Points: []float64{start, p.Resist.Intercept, end, p.Resist.At(w)}, Type: kind},
			model.Shape{Points: []float64{start, p.Support.Intercept, end, p.Support.At(w)}, Type: kind},
		)
	}
	return out
}

// Signals marks a buy at the confirmation candle of a bull pattern that
// closed up, and a sell at that of a bear pattern that closed down. Patterns
// confirmed within two candles of the end are skipped.
func Signals(s model.Series, order int) (model.Column, error) {
	col := model.NewColumn(len(s))
	patterns, err := FindTrendline(s.Closes(), order)
	if err != nil {
		return col, err
	}

	for _, p := range patterns {
		idx := s.NearestIndex(s[p.ConfX].Timestamp)
		if idx < 1 || idx+2 >= len(s) {
			continue
		}
		cur, prev := s[idx].Close, s[idx-1].Close
		if p.Bull && cur > prev {
			col.Buy[idx] = true
		}
		if !p.Bull && cur < prev {
			col.Sell[idx] = true
		}
	}
	return col, nil
}
