package srlevels

import (
	"fmt"

	"PatternScout/internal/calculator"
	"PatternScout/internal/model"
)

const (
	warmup         = 20
	volumeLookback = 20
	rsiLookback    = 5
	defaultATR     = 0.01
	minConditions  = 5
	numConditions  = 6
)

// Result holds the per-candle output of Signals. Strength and reason are kept
// separately for each side; a candle may carry both a buy and a sell.
type Result struct {
	model.Column
	BuyStrength  []float64
	SellStrength []float64
	BuyReason    []string
	SellReason   []string

	ATR         []float64
	Supports    []Level
	Resistances []Level
}

// Signals scores every candle after the warm-up against the extracted
// levels. A level qualifies when at least five of six conditions hold, and
// only the strongest qualifying level of each side is kept per candle.
func Signals(s model.Series, p Params) Result {
	n := len(s)
	res := Result{
		Column:       model.NewColumn(n),
		BuyStrength:  make([]float64, n),
		SellStrength: make([]float64, n),
		BuyReason:    make([]string, n),
		SellReason:   make([]string, n),
		ATR:          calculator.ATR(s.Highs(), s.Lows(), s.Closes(), p.ATRPeriod),
	}
	res.Supports, res.Resistances = Extract(s, p)

	closes := s.Closes()
	volumes := s.Volumes()

	for i := max(warmup, p.N1); i < n; i++ {
		c := s[i]
		atr := res.ATR[i]
		if !calculator.Valid(atr) {
			atr = defaultATR
		}
		tol := atr * 0.5
		avgVol := calculator.Mean(volumes[max(0, i-volumeLookback):i])
		rsi := calculator.MomentumRSI(closes, i, rsiLookback)
		highVolume := c.Volume > avgVol*1.2

		bearish, bullish := 0, 0
		for j := max(0, i-2); j <= i; j++ {
			if s[j].Close < s[j].Open {
				bearish++
			}
			if s[j].Close > s[j].Open {
				bullish++
			}
		}

		for _, lvl := range res.Supports {
			met := count(
				abs(c.Low-lvl.Price) <= tol,
				c.Close > c.Open,
				rsi < 70,
				highVolume,
				c.Close > lvl.Price-tol,
				bearish < 3,
			)
			strength := float64(met) / numConditions * float64(lvl.Touches)
			if met >= minConditions && strength > res.BuyStrength[i] {
				res.Buy[i] = true
				res.BuyStrength[i] = strength
				res.BuyReason[i] = fmt.Sprintf("support_bounce_%dtouches", lvl.Touches)
			}
		}

		for _, lvl := range res.Resistances {
			met := count(
				abs(c.High-lvl.Price) <= tol,
				c.Close < c.Open,
				rsi > 30,
				highVolume,
				c.Close < lvl.Price+tol,
				bullish < 3,
			)
			strength := float64(met) / numConditions * float64(lvl.Touches)
			if met >= minConditions && strength > res.SellStrength[i] {
				res.Sell[i] = true
				res.SellStrength[i] = strength
				res.SellReason[i] = fmt.Sprintf("resistance_rejection_%dtouches", lvl.Touches)
			}
		}
	}
	return res
}

func count(conds ...bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
