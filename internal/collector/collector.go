package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"PatternScout/internal/model"
	"PatternScout/internal/timeframe"
	"PatternScout/pkg/logger"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles model.Series
	Err     error

	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchCandles ran.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchCandles(_ context.Context, _, interval string, limit int) (model.Series, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		if len(m.Candles) > limit {
			return m.Candles[len(m.Candles)-limit:], nil
		}
		return m.Candles, nil
	}
	step := 60
	if minutes, err := timeframe.Minutes(interval); err == nil {
		step = minutes * 60
	}
	return generateMockSeries(m.Price, limit, int64(step)), nil
}

// generateMockSeries oscillates around basePrice with a slow upward drift.
func generateMockSeries(basePrice float64, count int, step int64) model.Series {
	if basePrice == 0 {
		basePrice = 100
	}
	start := time.Now().Unix() - int64(count)*step
	start -= start % step
	s := make(model.Series, count)
	for i := range s {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/9) + float64(i-count/2)*0.0005)
		s[i] = model.Candle{
			Timestamp: start + int64(i)*step,
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000 + float64(i%7)*100,
		}
	}
	return s
}

// Collector turns a watch into a candle window.
type Collector struct {
	Fetcher Fetcher
	log     *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *logger.Logger) *Collector {
	return &Collector{Fetcher: fetcher, log: log.With("component", "collector")}
}

// Collect fetches the timerange-month window of the watch's timeframe. The
// result is ordered by time with duplicate timestamps removed.
func (c *Collector) Collect(ctx context.Context, w model.Watch) (model.Series, error) {
	limit, err := timeframe.CalculateLimit(w.Timeframe, w.Timerange)
	if err != nil {
		return nil, err
	}

	s, err := c.Fetcher.FetchCandles(ctx, w.Symbol, w.Timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", w.Symbol, w.Timeframe, err)
	}
	s = normalize(s)
	c.log.Debugf("%s: %d/%d %s candles from %s", w.Name, len(s), limit, w.Timeframe, c.Fetcher.Name())
	return s, nil
}

func normalize(s model.Series) model.Series {
	out := append(model.Series(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	n := 0
	for i, c := range out {
		if i > 0 && c.Timestamp == out[n-1].Timestamp {
			out[n-1] = c
			continue
		}
		out[n] = c
		n++
	}
	return out[:n]
}
