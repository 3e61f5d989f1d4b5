// Package flags detects bull and bear flags and pennants on a close series.
//
// A direction is either idle or holds one pending candidate anchored at the
// most recent rolling extremum. A newer extremum replaces the candidate; a
// confirmed candidate is emitted and the direction goes back to idle.
package flags

import (
	"PatternScout/internal/trendline"
	"PatternScout/pkg/errors"
)

// DefaultOrder is the rolling window used for signals and plotted shapes.
const DefaultOrder = 20

// MinOrder is the smallest window the detectors accept.
const MinOrder = 3

// Kind is the pattern label used in plotted shapes.
type Kind int

const (
	BullFlag Kind = iota
	BearFlag
	BullPennant
	BearPennant
)

func (k Kind) String() string {
	switch k {
	case BullFlag:
		return "bull_flag"
	case BearFlag:
		return "bear_flag"
	case BullPennant:
		return "bull_pennant"
	case BearPennant:
		return "bear_pennant"
	}
	return "unknown"
}

// Pattern is a confirmed flag or pennant. X values are candle indices; the
// two boundary lines are expressed relative to TipX.
type Pattern struct {
	Bull    bool
	Pennant bool

	BaseX int
	BaseY float64
	TipX  int
	TipY  float64
	ConfX int
	ConfY float64

	FlagWidth  int
	FlagHeight float64
	PoleWidth  int
	PoleHeight float64

	Support trendline.Line
	Resist  trendline.Line
}

// Kind classifies the pattern by direction and line convergence.
func (p Pattern) Kind() Kind {
	switch {
	case p.Bull && p.Pennant:
		return BullPennant
	case p.Bull:
		return BullFlag
	case p.Pennant:
		return BearPennant
	}
	return BearFlag
}

// Accept is the proportion filter applied before PIP patterns are plotted.
func Accept(p Pattern, meanClose float64) bool {
	return p.PoleHeight > meanClose*0.02 &&
		p.PoleWidth >= 5 &&
		p.FlagHeight < p.PoleHeight*0.6 &&
		float64(p.FlagWidth) < float64(p.PoleWidth)*0.8
}

func checkOrder(order int) error {
	if order < MinOrder {
		return errors.Wrapf(errors.ErrInvalidOrder, "flags: order %d is below %d", order, MinOrder)
	}
	return nil
}
