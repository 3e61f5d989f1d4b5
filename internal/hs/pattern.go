// Package hs detects head and shoulders tops and their inverted bottoms on a
// close series.
package hs

import "math"

// DefaultOrder is the rolling window used for signals and plotted shapes.
const DefaultOrder = 20

// Pattern is a confirmed head and shoulders. Inverted patterns are bottoms.
// Index fields are candle indices; the P suffix marks the close at that index.
type Pattern struct {
	Inverted bool

	LShoulder int
	LArmpit   int
	Head      int
	RArmpit   int
	RShoulder int

	LShoulderP float64
	LArmpitP   float64
	HeadP      float64
	RArmpitP   float64
	RShoulderP float64

	Start  int
	Break  int
	BreakP float64

	// neckline values at Start and at Break
	NeckStart float64
	NeckEnd   float64

	NeckSlope  float64
	HeadWidth  int
	HeadHeight float64
	R2         float64
}

// Type is the label used in plotted shapes.
func (p Pattern) Type() string {
	if p.Inverted {
		return "inverse_head_shoulders"
	}
	return "head_shoulders"
}

// r2 scores how well six straight segments through the pattern's key points
// explain the closes in [Start, Break). A flat window scores 0.
func r2(data []float64, p Pattern) float64 {
	knots := [7]struct {
		x int
		y float64
	}{
		{p.Start, p.NeckStart},
		{p.LShoulder, p.LShoulderP},
		{p.LArmpit, p.LArmpitP},
		{p.Head, p.HeadP},
		{p.RArmpit, p.RArmpitP},
		{p.RShoulder, p.RShoulderP},
		{p.Break, p.BreakP},
	}

	var mean float64
	for _, v := range data[p.Start:p.Break] {
		mean += v
	}
	mean /= float64(p.Break - p.Start)

	var ssRes, ssTot float64
	for k := 0; k+1 < len(knots); k++ {
		a, b := knots[k], knots[k+1]
		slope := (b.y - a.y) / float64(b.x-a.x)
		for x := a.x; x < b.x; x++ {
			res := data[x] - (a.y + float64(x-a.x)*slope)
			dev := data[x] - mean
			ssRes += res * res
			ssTot += dev * dev
		}
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// PatternReturn simulates trading the breakout: enter at the break close,
// stop at the right shoulder, target the neckline moved by the head height.
// The trade is held for at most HeadWidth candles. With logPrices the result
// is a price difference (meant for log prices), otherwise a fraction of the
// entry. NaN means the series ended before the trade closed.
func PatternReturn(data []float64, p Pattern, logPrices bool) float64 {
	entry := p.BreakP
	stop := p.RShoulderP
	target := p.NeckEnd - p.HeadHeight
	if p.Inverted {
		target = p.NeckEnd + p.HeadHeight
	}

	exit := entry
	for k := 0; k < p.HeadWidth; k++ {
		if p.Break+k >= len(data) {
			return math.NaN()
		}
		exit = data[p.Break+k]
		if p.Inverted && (exit > target || exit < stop) {
			break
		}
		if !p.Inverted && (exit < target || exit > stop) {
			break
		}
	}

	diff := exit - entry
	if !p.Inverted {
		diff = -diff
	}
	if logPrices {
		return diff
	}
	return diff / entry
}
