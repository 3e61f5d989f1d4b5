package flags

import (
	"math"

	"PatternScout/internal/calculator"
	"PatternScout/internal/extrema"
	"PatternScout/internal/trendline"
)

// FindPIPs scans data and confirms flags whose shape is read from five
// perceptually important points between the pole tip and the current candle.
// Patterns are returned in confirmation order.
func FindPIPs(data []float64, order int) ([]Pattern, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	var (
		bull, bear *Pattern
		out        []Pattern
	)
	for i := range data {
		if extrema.RollingTop(data, i, order) {
			bear = &Pattern{BaseX: i - order, BaseY: data[i-order]}
		}
		if extrema.RollingBottom(data, i, order) {
			bull = &Pattern{Bull: true, BaseX: i - order, BaseY: data[i-order]}
		}

		if bear != nil && checkBearPIPs(bear, data, i, order) {
			out = append(out, *bear)
			bear = nil
		}
		if bull != nil && checkBullPIPs(bull, data, i, order) {
			out = append(out, *bull)
			bull = nil
		}
	}
	return out, nil
}

func minFlagWidth(order int) float64 {
	return math.Max(5, float64(order)*0.5)
}

func checkBullPIPs(p *Pattern, data []float64, i, order int) bool {
	tip := p.BaseX + calculator.ArgMax(data[p.BaseX:i+1])
	if float64(i-tip) < minFlagWidth(order) {
		return false
	}

	poleW, flagW := tip-p.BaseX, i-tip
	if poleW <= 0 || float64(flagW) > float64(poleW)*0.5 {
		return false
	}
	poleH := data[tip] - p.BaseY
	flagH := data[tip] - calculator.Min(data[tip:i+1])
	if poleH <= 0 || flagH > poleH*0.5 {
		return false
	}

	x, y := trendline.FindPIPs(data[tip:i+1], 5)
	if len(x) < 5 {
		return false
	}
	// \/\/ : the middle pip must stand above both neighbours
	if !(y[2] > y[1] && y[2] > y[3]) {
		return false
	}

	resist := trendline.Line{Slope: (y[2] - y[0]) / float64(x[2]-x[0]), Intercept: y[0]}
	supSlope := (y[3] - y[1]) / float64(x[3]-x[1])
	support := trendline.Line{Slope: supSlope, Intercept: y[1] + float64(x[0]-x[1])*supSlope}

	if !linesClear(resist, support, flagW, x[4]) {
		return false
	}
	if y[4] < resist.At(float64(x[4])) {
		return false
	}

	p.Pennant = support.Slope > 0
	p.TipX, p.TipY = tip, data[tip]
	p.ConfX, p.ConfY = i, data[i]
	p.FlagWidth, p.FlagHeight = flagW, flagH
	p.PoleWidth, p.PoleHeight = poleW, poleH
	p.Support, p.Resist = support, resist
	return true
}

func checkBearPIPs(p *Pattern, data []float64, i, order int) bool {
	tip := p.BaseX + calculator.ArgMin(data[p.BaseX:i+1])
	if float64(i-tip) < minFlagWidth(order) {
		return false
	}

	poleW, flagW := tip-p.BaseX, i-tip
	if poleW <= 0 || float64(flagW) > float64(poleW)*0.5 {
		return false
	}
	poleH := p.BaseY - data[tip]
	flagH := calculator.Max(data[tip:i+1]) - data[tip]
	if poleH <= 0 || flagH > poleH*0.5 {
		return false
	}

	x, y := trendline.FindPIPs(data[tip:i+1], 5)
	if len(x) < 5 {
		return false
	}
	// /\/\ : the middle pip must sit below both neighbours
	if !(y[2] < y[1] && y[2] < y[3]) {
		return false
	}

	support := trendline.Line{Slope: (y[2] - y[0]) / float64(x[2]-x[0]), Intercept: y[0]}
	resSlope := (y[3] - y[1]) / float64(x[3]-x[1])
	resist := trendline.Line{Slope: resSlope, Intercept: y[1] + float64(x[0]-x[1])*resSlope}

	if !linesClear(resist, support, flagW, x[4]) {
		return false
	}
	if y[4] > support.At(float64(x[4])) {
		return false
	}

	p.Pennant = resist.Slope < 0
	p.TipX, p.TipY = tip, data[tip]
	p.ConfX, p.ConfY = i, data[i]
	p.FlagWidth, p.FlagHeight = flagW, flagH
	p.PoleWidth, p.PoleHeight = poleW, poleH
	p.Support, p.Resist = support, resist
	return true
}

// linesClear rejects boundary lines that cross inside the flag, or that
// diverge so sharply they crossed less than one flag width before it.
func linesClear(resist, support trendline.Line, flagW, lastX int) bool {
	x := trendline.Intersection(resist, support, -float64(flagW)*100)
	if x >= 0 && x <= float64(lastX) {
		return false
	}
	if x < 0 && x > -float64(flagW) {
		return false
	}
	return true
}
