package model

// Direction is the side of a signal.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// Signal is a single directional recommendation at a candle timestamp.
type Signal struct {
	Timestamp int64     `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// Column is the per-candle output of one detector, indexed like the series.
type Column struct {
	Buy  []bool
	Sell []bool
}

// NewColumn allocates an all-false column for n candles.
func NewColumn(n int) Column {
	return Column{Buy: make([]bool, n), Sell: make([]bool, n)}
}

// Len returns the number of candles covered by the column.
func (c Column) Len() int { return len(c.Buy) }

// EvaluationResult scores a signal list against the candles that followed it.
type EvaluationResult struct {
	Total         int     `json:"total"`
	Hits          int     `json:"hits"`
	Misses        int     `json:"misses"`
	Assertiveness float64 `json:"assertiveness"`
}

// Report is the full output of one analysis run.
type Report struct {
	Buy      []int64          `json:"buy"`
	Sell     []int64          `json:"sell"`
	BuyEval  EvaluationResult `json:"buy_eval"`
	SellEval EvaluationResult `json:"sell_eval"`
	Shapes   Shapes           `json:"shapes"`
	Insights *Insights        `json:"insights,omitempty"`
}

// Insights are level statistics reported alongside the signals when the
// support/resistance detector is enabled.
type Insights struct {
	// KeyLevels are the levels nearest the last close, at least 0.5% apart.
	KeyLevels      []float64 `json:"key_levels"`
	PointOfControl float64   `json:"point_of_control"`
	Trades         int       `json:"trades"`
	WinRate        float64   `json:"win_rate"`
	AvgPnLPct      float64   `json:"avg_pnl_pct"`
}

// Signals returns buy and sell signals merged in timestamp order.
func (r *Report) Signals() []Signal {
	out := make([]Signal, 0, len(r.Buy)+len(r.Sell))
	i, j := 0, 0
	for i < len(r.Buy) || j < len(r.Sell) {
		if j >= len(r.Sell) || (i < len(r.Buy) && r.Buy[i] <= r.Sell[j]) {
			out = append(out, Signal{Timestamp: r.Buy[i], Direction: Buy})
			i++
			continue
		}
		out = append(out, Signal{Timestamp: r.Sell[j], Direction: Sell})
		j++
	}
	return out
}
