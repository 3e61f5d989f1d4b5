package strategy

import (
	"PatternScout/internal/fibonacci"
	"PatternScout/internal/flags"
	"PatternScout/internal/hs"
	"PatternScout/internal/model"
	"PatternScout/internal/srlevels"
)

const (
	keyLevelDistancePct = 0.5
	maxKeyLevels        = 10
	profileLookback     = 50
	stopATR             = 1.5
	targetATR           = 3.0
)

// BuildShapes computes the plottable output of the enabled geometric
// detectors. Disabled detectors contribute empty collections.
func BuildShapes(s model.Series, cfg model.ShapeFlags) (model.Shapes, error) {
	out := model.Shapes{
		SR:        []float64{},
		Flags:     []model.Shape{},
		HS:        []model.HSShape{},
		Fibonacci: map[string][]model.LinePoint{},
	}

	if cfg.SR {
		if levels := srlevels.Levels(s, srlevels.DefaultParams()); levels != nil {
			out.SR = levels
		}
	}

	if cfg.Flags {
		variant := flags.VariantTrendline
		if cfg.FlagVariant != "" {
			variant = flags.Variant(cfg.FlagVariant)
		}
		patterns, err := flags.Detect(s, flags.DefaultOrder, variant)
		if err != nil {
			return out, err
		}
		out.Flags = flags.Shapes(s, patterns)
	}

	if cfg.HS {
		patterns, err := hs.Find(s.Closes(), hs.DefaultOrder, false)
		if err != nil {
			return out, err
		}
		out.HS = hs.Shapes(s, patterns)
	}

	if cfg.Fibonacci {
		if lines := fibonacci.Lines(s, fibonacci.DefaultLookback); lines != nil {
			out.Fibonacci = lines
		}
	}
	return out, nil
}

// Insights summarises the support/resistance levels of a non-empty series:
// the significant levels around the last close, the volume point of control
// and an ATR stop/target backtest of the level signals.
func Insights(s model.Series) *model.Insights {
	p := srlevels.DefaultParams()
	res := srlevels.Signals(s, p)
	bt := srlevels.Backtest(s, res, stopATR, targetATR)

	var levels []float64
	for _, l := range res.Supports {
		levels = append(levels, l.Price)
	}
	for _, l := range res.Resistances {
		levels = append(levels, l.Price)
	}

	key := srlevels.FilterSignificant(levels, s[len(s)-1].Close, keyLevelDistancePct, maxKeyLevels)
	if key == nil {
		key = []float64{}
	}
	return &model.Insights{
		KeyLevels:      key,
		PointOfControl: srlevels.PointOfControl(srlevels.VolumeProfile(s, profileLookback)),
		Trades:         len(bt.Trades),
		WinRate:        bt.WinRate,
		AvgPnLPct:      bt.AvgPnLPct,
	}
}
