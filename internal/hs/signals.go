package hs

import "PatternScout/internal/model"

// Signals marks a sell at the break of every regular pattern and a buy at
// the break of every inverted one.
func Signals(s model.Series, order int) (model.Column, error) {
	col := model.NewColumn(len(s))
	patterns, err := Find(s.Closes(), order, false)
	if err != nil {
		return col, err
	}
	for _, p := range patterns {
		if p.Inverted {
			col.Buy[p.Break] = true
		} else {
			col.Sell[p.Break] = true
		}
	}
	return col, nil
}

// Shapes returns the seven-point outline and the armpit neckline of each
// pattern.
func Shapes(s model.Series, patterns []Pattern) []model.HSShape {
	out := make([]model.HSShape, 0, len(patterns))
	at := func(i int, price float64) [2]float64 {
		return [2]float64{float64(s[i].Timestamp), price}
	}
	for _, p := range patterns {
		out = append(out, model.HSShape{
			Points: [][2]float64{
				at(p.Start, p.NeckStart),
				at(p.LShoulder, p.LShoulderP),
				at(p.LArmpit, p.LArmpitP),
				at(p.Head, p.HeadP),
				at(p.RArmpit, p.RArmpitP),
				at(p.RShoulder, p.RShoulderP),
				at(p.Break, p.BreakP),
			},
			Neckline: [][2]float64{
				at(p.LArmpit, p.LArmpitP),
				at(p.RArmpit, p.RArmpitP),
			},
			Type: p.Type(),
		})
	}
	return out
}
