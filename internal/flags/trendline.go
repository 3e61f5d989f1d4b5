package flags

import (
	"PatternScout/internal/calculator"
	"PatternScout/internal/extrema"
	"PatternScout/internal/trendline"
)

// FindTrendline scans data for flags whose pole runs between the last two
// rolling extrema and whose channel is fitted with trendline.FitSingle over
// the candles since the pole tip, excluding the current one.
func FindTrendline(data []float64, order int) ([]Pattern, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	var (
		bull, bear *Pattern
		out        []Pattern
	)
	lastTop, lastBottom := -1, -1
	for i := range data {
		if extrema.RollingTop(data, i, order) {
			lastTop = i - order
			if lastBottom != -1 {
				bull = &Pattern{
					Bull:  true,
					BaseX: lastBottom, BaseY: data[lastBottom],
					TipX: lastTop, TipY: data[lastTop],
				}
			}
		}
		if extrema.RollingBottom(data, i, order) {
			lastBottom = i - order
			if lastTop != -1 {
				bear = &Pattern{
					BaseX: lastTop, BaseY: data[lastTop],
					TipX: lastBottom, TipY: data[lastBottom],
				}
			}
		}

		if bear != nil && checkBearTrendline(bear, data, i) {
			out = append(out, *bear)
			bear = nil
		}
		if bull != nil && checkBullTrendline(bull, data, i) {
			out = append(out, *bull)
			bull = nil
		}
	}
	return out, nil
}

func checkBullTrendline(p *Pattern, data []float64, i int) bool {
	if i-p.TipX < 2 || calculator.Max(data[p.TipX+1:i]) > p.TipY {
		return false
	}

	poleH, poleW := p.TipY-p.BaseY, p.TipX-p.BaseX
	flagH, flagW := p.TipY-calculator.Min(data[p.TipX:i]), i-p.TipX
	if poleH <= 0 || poleW <= 0 {
		return false
	}
	if float64(flagW) > float64(poleW)*0.5 || flagH > poleH*0.75 {
		return false
	}

	support, resist := trendline.FitSingle(data[p.TipX:i])
	if data[i] <= resist.At(float64(flagW+1)) {
		return false
	}

	p.Pennant = support.Slope > 0
	p.ConfX, p.ConfY = i, data[i]
	p.FlagWidth, p.FlagHeight = flagW, flagH
	p.PoleWidth, p.PoleHeight = poleW, poleH
	p.Support, p.Resist = support, resist
	return true
}

func checkBearTrendline(p *Pattern, data []float64, i int) bool {
	if i-p.TipX < 2 || calculator.Min(data[p.TipX+1:i]) < p.TipY {
		return false
	}

	poleH, poleW := p.BaseY-p.TipY, p.TipX-p.BaseX
	flagH, flagW := calculator.Max(data[p.TipX:i])-p.TipY, i-p.TipX
	if poleH <= 0 || poleW <= 0 {
		return false
	}
	if float64(flagW) > float64(poleW)*0.5 || flagH > poleH*0.75 {
		return false
	}

	support, resist := trendline.FitSingle(data[p.TipX:i])
	if data[i] >= support.At(float64(flagW+1)) {
		return false
	}

	p.Pennant = resist.Slope < 0
	p.ConfX, p.ConfY = i, data[i]
	p.FlagWidth, p.FlagHeight = flagW, flagH
	p.PoleWidth, p.PoleHeight = poleW, poleH
	p.Support, p.Resist = support, resist
	return true
}
