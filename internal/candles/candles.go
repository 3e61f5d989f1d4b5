// Package candles recognises single and multi-candle reversal patterns.
// Each pattern column holds +1 for a bullish match, -1 for a bearish one and
// 0 otherwise.
package candles

import (
	"math"

	"PatternScout/internal/model"
)

// Patterns holds one column per recognised pattern.
type Patterns struct {
	Engulfing      []int
	Hammer         []int
	Doji           []int
	MorningStar    []int
	EveningStar    []int
	Harami         []int
	InvertedHammer []int
}

func body(c model.Candle) float64 { return math.Abs(c.Close - c.Open) }

func upperWick(c model.Candle) float64 { return c.High - math.Max(c.Open, c.Close) }

func lowerWick(c model.Candle) float64 { return math.Min(c.Open, c.Close) - c.Low }

func bullish(c model.Candle) bool { return c.Close > c.Open }

func bearish(c model.Candle) bool { return c.Close < c.Open }

// Detect evaluates every pattern on every candle.
func Detect(s model.Series) Patterns {
	n := len(s)
	p := Patterns{
		Engulfing:      make([]int, n),
		Hammer:         make([]int, n),
		Doji:           make([]int, n),
		MorningStar:    make([]int, n),
		EveningStar:    make([]int, n),
		Harami:         make([]int, n),
		InvertedHammer: make([]int, n),
	}

	for i, c := range s {
		b := body(c)
		if lowerWick(c) > 2*b && upperWick(c) < b {
			p.Hammer[i] = 1
		}
		if rng := c.High - c.Low; rng > 0 && b < 0.1*rng {
			p.Doji[i] = 1
		}
		if upperWick(c) > 2*b && lowerWick(c) < b && b > 0 {
			p.InvertedHammer[i] = 1
		}

		if i >= 1 {
			p.Engulfing[i] = engulfing(s[i-1], c)
			p.Harami[i] = harami(s[i-1], c)
		}
		if i >= 2 {
			if morningStar(s[i-2], s[i-1], c) {
				p.MorningStar[i] = 1
			}
			if eveningStar(s[i-2], s[i-1], c) {
				p.EveningStar[i] = -1
			}
		}
	}
	return p
}

func engulfing(prev, cur model.Candle) int {
	switch {
	case bearish(prev) && bullish(cur) && cur.Open < prev.Close && cur.Close > prev.Open:
		return 1
	case bullish(prev) && bearish(cur) && cur.Open > prev.Close && cur.Close < prev.Open:
		return -1
	}
	return 0
}

// harami: a small candle inside the previous candle's body, against its
// direction.
func harami(prev, cur model.Candle) int {
	if body(prev) <= 2*body(cur) {
		return 0
	}
	switch {
	case bearish(prev) && bullish(cur) && cur.Low > prev.Close && cur.High < prev.Open:
		return 1
	case bullish(prev) && bearish(cur) && cur.Low > prev.Open && cur.High < prev.Close:
		return -1
	}
	return 0
}

func bigBody(c model.Candle) bool { return body(c) > (c.High-c.Low)*0.6 }

func smallBody(c model.Candle) bool { return body(c) < (c.High-c.Low)*0.3 }

func morningStar(c1, c2, c3 model.Candle) bool {
	return bearish(c1) && bigBody(c1) &&
		smallBody(c2) && c2.High < c1.Close &&
		bullish(c3) && bigBody(c3) &&
		c3.Close > (c1.Open+c1.Close)/2
}

func eveningStar(c1, c2, c3 model.Candle) bool {
	return bullish(c1) && bigBody(c1) &&
		smallBody(c2) && c2.Low > c1.Close &&
		bearish(c3) && bigBody(c3) &&
		c3.Close < (c1.Open+c1.Close)/2
}

// Signals buys on a bullish engulfing, hammer, morning star, bullish harami
// or inverted hammer, and sells on a bearish engulfing, evening star or
// bearish harami. Doji is recognised but neutral.
func Signals(s model.Series) model.Column {
	p := Detect(s)
	col := model.NewColumn(len(s))
	for i := range s {
		col.Buy[i] = p.Engulfing[i] == 1 || p.Hammer[i] == 1 || p.MorningStar[i] == 1 ||
			p.Harami[i] == 1 || p.InvertedHammer[i] == 1
		col.Sell[i] = p.Engulfing[i] == -1 || p.EveningStar[i] == -1 || p.Harami[i] == -1
	}
	return col
}
