package srlevels

import (
	"github.com/shopspring/decimal"

	"PatternScout/internal/calculator"
	"PatternScout/internal/model"
)

// VolumeProfile sums the volume of the last lookback candles by typical
// price, (high+low)/2 rounded to cents.
func VolumeProfile(s model.Series, lookback int) map[float64]float64 {
	out := make(map[float64]float64)
	for i := max(0, len(s)-lookback); i < len(s); i++ {
		mid := decimal.NewFromFloat((s[i].High + s[i].Low) / 2).Round(2).InexactFloat64()
		out[mid] += s[i].Volume
	}
	return out
}

// PointOfControl returns the price with the most volume in a profile, or 0
// for an empty one. Ties go to the lower price.
func PointOfControl(profile map[float64]float64) float64 {
	var best, bestVol float64
	found := false
	for price, vol := range profile {
		if !found || vol > bestVol || (vol == bestVol && price < best) {
			best, bestVol, found = price, vol, true
		}
	}
	return best
}

// Trade is one simulated position opened on a level signal.
type Trade struct {
	Long       bool
	EntryIndex int
	ExitIndex  int
	Entry      float64
	Exit       float64
	PnL        float64
	PnLPct     float64
	Strength   float64
}

// BacktestResult summarises the trades of Backtest.
type BacktestResult struct {
	Trades    []Trade
	WinRate   float64
	AvgPnLPct float64
}

// Backtest walks the closes once, holding at most one position. A buy opens
// a long and a sell a short, with the stop and target set at stopATR and
// targetATR multiples of the current ATR. Positions still open at the end are
// not counted.
func Backtest(s model.Series, r Result, stopATR, targetATR float64) BacktestResult {
	var (
		out  BacktestResult
		open *Trade
		stop float64
		tp   float64
	)
	for i, c := range s {
		price := c.Close
		if open != nil {
			var hit bool
			if open.Long {
				hit = price <= stop || price >= tp
			} else {
				hit = price >= stop || price <= tp
			}
			if hit {
				open.ExitIndex, open.Exit = i, price
				open.PnL = price - open.Entry
				if !open.Long {
					open.PnL = -open.PnL
				}
				open.PnLPct = open.PnL / open.Entry * 100
				out.Trades = append(out.Trades, *open)
				open = nil
			}
		}
		if open != nil {
			continue
		}

		atr := defaultATR
		if i < len(r.ATR) && calculator.Valid(r.ATR[i]) {
			atr = r.ATR[i]
		}
		switch {
		case r.Buy[i]:
			open = &Trade{Long: true, EntryIndex: i, Entry: price, Strength: r.BuyStrength[i]}
			stop, tp = price-atr*stopATR, price+atr*targetATR
		case r.Sell[i]:
			open = &Trade{EntryIndex: i, Entry: price, Strength: r.SellStrength[i]}
			stop, tp = price+atr*stopATR, price-atr*targetATR
		}
	}

	if len(out.Trades) == 0 {
		return out
	}
	wins := 0
	pct := make([]float64, len(out.Trades))
	for k, t := range out.Trades {
		if t.PnL > 0 {
			wins++
		}
		pct[k] = t.PnLPct
	}
	out.WinRate = float64(wins) / float64(len(out.Trades)) * 100
	out.AvgPnLPct = calculator.Mean(pct)
	return out
}
