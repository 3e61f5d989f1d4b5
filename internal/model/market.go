package model

import "sort"

// Candle represents a single OHLCV bar. Timestamp is unix seconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Series is an ordered run of candles, strictly increasing by timestamp.
// Detectors read it and never modify it.
type Series []Candle

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Opens returns the open prices of the series.
func (s Series) Opens() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Open
	}
	return out
}

// Highs returns the high prices of the series.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

// Lows returns the low prices of the series.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}

// Volumes returns the traded volumes of the series.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}
	return out
}

// Timestamps returns the candle timestamps of the series.
func (s Series) Timestamps() []int64 {
	out := make([]int64, len(s))
	for i, c := range s {
		out[i] = c.Timestamp
	}
	return out
}

// NearestIndex returns the index of the candle closest in time to ts.
// Ties resolve to the later candle. Returns -1 for an empty series.
func (s Series) NearestIndex(ts int64) int {
	n := len(s)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return s[i].Timestamp >= ts })
	if i == 0 {
		return 0
	}
	if i == n {
		return n - 1
	}
	if ts-s[i-1].Timestamp < s[i].Timestamp-ts {
		return i - 1
	}
	return i
}

// MeanClose returns the average close, or 0 for an empty series.
func (s Series) MeanClose() float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range s {
		sum += c.Close
	}
	return sum / float64(len(s))
}
