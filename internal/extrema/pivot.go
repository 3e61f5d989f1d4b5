// Package extrema decides whether a candle is a local top or bottom within a
// symmetric window. Every comparison is strict: flat ties never qualify.
package extrema

import "PatternScout/internal/model"

// PivotKind classifies a candle as a local low, local high, both or neither.
type PivotKind int

const (
	None PivotKind = iota
	Support
	Resistance
	Both
)

func (k PivotKind) String() string {
	switch k {
	case Support:
		return "support"
	case Resistance:
		return "resistance"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// IsPivot classifies candle i using n1 candles before and n2 after it.
// A resistance pivot has the strictly highest high of the window, a support
// pivot the strictly lowest low. Indices without a full window return None.
func IsPivot(s model.Series, i, n1, n2 int) PivotKind {
	if n1 < 0 || n2 < 0 || i-n1 < 0 || i+n2 >= len(s) {
		return None
	}
	high, low := true, true
	for j := i - n1; j <= i+n2; j++ {
		if j == i {
			continue
		}
		if s[j].High >= s[i].High {
			high = false
		}
		if s[j].Low <= s[i].Low {
			low = false
		}
		if !high && !low {
			return None
		}
	}
	switch {
	case high && low:
		return Both
	case high:
		return Resistance
	case low:
		return Support
	}
	return None
}

// IsPivotOrder is IsPivot with the same lookback and lookahead.
func IsPivotOrder(s model.Series, i, order int) PivotKind {
	return IsPivot(s, i, order, order)
}

// RollingTop reports whether data[i-order] is the strict maximum of
// data[i-2*order : i+1]. At scan index i this is the newest top that can be
// confirmed without looking past i.
func RollingTop(data []float64, i, order int) bool {
	k := i - order
	if order < 1 || k-order < 0 || i >= len(data) {
		return false
	}
	v := data[k]
	for j := 1; j <= order; j++ {
		if data[k+j] >= v || data[k-j] >= v {
			return false
		}
	}
	return true
}

// RollingBottom reports whether data[i-order] is the strict minimum of
// data[i-2*order : i+1].
func RollingBottom(data []float64, i, order int) bool {
	k := i - order
	if order < 1 || k-order < 0 || i >= len(data) {
		return false
	}
	v := data[k]
	for j := 1; j <= order; j++ {
		if data[k+j] <= v || data[k-j] <= v {
			return false
		}
	}
	return true
}
