package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PatternScout/internal/model"
)

// ramp builds n one-minute candles whose close rises by one per bar.
func ramp(n int) model.Series {
	s := make(model.Series, n)
	for i := range s {
		p := 100 + float64(i)
		s[i] = model.Candle{Timestamp: int64(i) * 60, Open: p - 0.5, High: p + 1, Low: p - 1, Close: p}
	}
	return s
}

func TestEvaluate_RisingMarket(t *testing.T) {
	s := ramp(30)
	signals := []int64{0, 300, 600}

	buy := Evaluate(s, signals, model.Buy, DefaultFuture)
	assert.Equal(t, model.EvaluationResult{Total: 3, Hits: 3, Assertiveness: 100}, buy)

	sell := Evaluate(s, signals, model.Sell, DefaultFuture)
	assert.Equal(t, model.EvaluationResult{Total: 3, Misses: 3, Assertiveness: 0}, sell)
}

func TestEvaluate_ExcludesSignalsWithoutHorizon(t *testing.T) {
	s := ramp(15)

	// index 4 exits at 14, index 5 would need index 15
	res := Evaluate(s, []int64{240, 300, 840}, model.Buy, DefaultFuture)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Hits)
}

func TestEvaluate_SnapsToNearestCandle(t *testing.T) {
	s := ramp(20)
	s[10].Close = 50 // makes the exit of index 0 a loss

	res := Evaluate(s, []int64{29}, model.Buy, DefaultFuture)
	assert.Equal(t, 1, res.Misses)

	res = Evaluate(s, []int64{31}, model.Buy, DefaultFuture)
	assert.Equal(t, 1, res.Hits, "31s is closer to the second candle")

	res = Evaluate(s, []int64{30}, model.Buy, DefaultFuture)
	assert.Equal(t, 1, res.Hits, "a tie goes to the later candle")
}

func TestEvaluate_Empty(t *testing.T) {
	assert.Equal(t, model.EvaluationResult{}, Evaluate(ramp(20), nil, model.Buy, DefaultFuture))
	assert.Equal(t, model.EvaluationResult{}, Evaluate(nil, []int64{1, 2}, model.Sell, DefaultFuture))
}

func TestEvaluate_Idempotent(t *testing.T) {
	s := ramp(40)
	s[15].Close = 10
	s[22].Close = 500
	signals := []int64{60, 300, 720, 1500, 2200}

	first := Evaluate(s, signals, model.Sell, DefaultFuture)
	second := Evaluate(s, signals, model.Sell, DefaultFuture)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.Total)
	assert.Equal(t, 1, first.Hits)
	assert.Equal(t, 25.0, first.Assertiveness)
}

func TestAssertiveness(t *testing.T) {
	tests := []struct {
		hits, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 8, 12.5},
		{7, 7, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Assertiveness(tt.hits, tt.total), "%d/%d", tt.hits, tt.total)
	}
}
