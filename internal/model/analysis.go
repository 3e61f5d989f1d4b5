package model

import (
	"PatternScout/pkg/errors"
)

// Detector names, in the order the engine reports them.
const (
	DetectorCandles    = "candles"
	DetectorSR         = "sr"
	DetectorFlags      = "flags"
	DetectorFibonacci  = "fibonacci"
	DetectorHS         = "hs"
	DetectorBB         = "bb"
	DetectorEMA        = "ema"
	DetectorRSI        = "rsi"
	DetectorMACD       = "macd"
	DetectorStochastic = "stochastic"
)

// ShapeFlags enables the geometric detectors.
type ShapeFlags struct {
	SR        bool `yaml:"sr" json:"sr"`
	Flags     bool `yaml:"flags" json:"flags"`
	Fibonacci bool `yaml:"fibonacci" json:"fibonacci"`
	HS        bool `yaml:"hs" json:"hs"`

	// FlagVariant picks the flag detector used for plotting: "trendline"
	// (default) or "pips".
	FlagVariant string `yaml:"flag_variant" json:"flag_variant,omitempty"`
}

// IndicatorFlags enables the indicator detectors.
type IndicatorFlags struct {
	BB         bool `yaml:"bb" json:"bb"`
	EMA        bool `yaml:"ema" json:"ema"`
	RSI        bool `yaml:"rsi" json:"rsi"`
	MACD       bool `yaml:"macd" json:"macd"`
	Stochastic bool `yaml:"stochastic" json:"stochastic"`
}

// Confluence holds the minimum number of agreeing detectors per side.
type Confluence struct {
	Buy  int `yaml:"buy" json:"buy"`
	Sell int `yaml:"sell" json:"sell"`
}

// AnalysisConfig selects detectors and confluence thresholds for one run.
type AnalysisConfig struct {
	Candles    bool           `yaml:"candles" json:"candles"`
	Shapes     ShapeFlags     `yaml:"shapes" json:"shapes"`
	Indicators IndicatorFlags `yaml:"indicators" json:"indicators"`
	Confluence Confluence     `yaml:"confluence" json:"confluence"`
}

// Enabled returns the names of the enabled detectors in canonical order.
func (a AnalysisConfig) Enabled() []string {
	flags := []struct {
		name string
		on   bool
	}{
		{DetectorCandles, a.Candles},
		{DetectorSR, a.Shapes.SR},
		{DetectorFlags, a.Shapes.Flags},
		{DetectorFibonacci, a.Shapes.Fibonacci},
		{DetectorHS, a.Shapes.HS},
		{DetectorBB, a.Indicators.BB},
		{DetectorEMA, a.Indicators.EMA},
		{DetectorRSI, a.Indicators.RSI},
		{DetectorMACD, a.Indicators.MACD},
		{DetectorStochastic, a.Indicators.Stochastic},
	}
	var out []string
	for _, f := range flags {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

// Validate rejects configurations the engine cannot run. It never falls back
// to enabling everything.
func (a AnalysisConfig) Validate() error {
	var errs errors.MultiError
	if a.Confluence.Buy <= 0 {
		errs.Add(errors.NewValidationError("confluence.buy", "must be positive", a.Confluence.Buy))
	}
	if a.Confluence.Sell <= 0 {
		errs.Add(errors.NewValidationError("confluence.sell", "must be positive", a.Confluence.Sell))
	}
	switch a.Shapes.FlagVariant {
	case "", "trendline", "pips":
	default:
		errs.Add(errors.NewValidationError("shapes.flag_variant", "must be trendline or pips", a.Shapes.FlagVariant))
	}
	if len(a.Enabled()) == 0 {
		errs.Add(errors.NewValidationError("analysis", "no detector enabled", nil))
	}
	return errs.ToError()
}

// Watch is a named, scheduled analysis of one symbol and timeframe.
type Watch struct {
	Name      string         `yaml:"name" json:"name"`
	Symbol    string         `yaml:"symbol" json:"symbol"`
	Timeframe string         `yaml:"timeframe" json:"timeframe"`
	Timerange int            `yaml:"timerange" json:"timerange"`
	Cron      string         `yaml:"cron" json:"cron"`
	Analysis  AnalysisConfig `yaml:"analysis" json:"analysis"`
}
