package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
)

const (
	// DefaultBinanceURL is the public spot API.
	DefaultBinanceURL = "https://api.binance.com"
	// binancePageSize is the largest klines page Binance serves.
	binancePageSize = 1000
)

// BinanceFetcher implements Fetcher with the Binance klines endpoint. Large
// requests are paged backwards from the newest candle.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewBinanceFetcher creates a fetcher allowing requestsPerMinute calls, with
// a burst of a tenth of that.
func NewBinanceFetcher(baseURL, proxyURL string, requestsPerMinute int) *BinanceFetcher {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1200
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), max(1, requestsPerMinute/10)),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchCandles returns up to limit candles, oldest first, with timestamps in
// seconds.
func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (model.Series, error) {
	var out model.Series
	var endTime int64 // ms, 0 means "now"
	for len(out) < limit {
		size := min(binancePageSize, limit-len(out))
		page, err := f.fetchPage(ctx, symbol, interval, size, endTime)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		out = append(page, out...)
		if len(page) < size {
			break
		}
		endTime = page[0].Timestamp*1000 - 1
	}
	return out, nil
}

func (f *BinanceFetcher) fetchPage(ctx context.Context, symbol, interval string, limit int, endTime int64) (model.Series, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "binance rate limiter")
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	if endTime > 0 {
		q.Set("endTime", strconv.FormatInt(endTime, 10))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/api/v3/klines?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExchangeUnavailable, "binance fetch: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusTeapot:
		return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "binance: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Wrapf(errors.ErrExchangeUnavailable, "binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}
	return parseKlines(rows)
}

// parseKlines converts [openTime, open, high, low, close, volume, ...] rows.
// Binance sends the open time in milliseconds and prices as strings.
func parseKlines(rows [][]json.RawMessage) (model.Series, error) {
	out := make(model.Series, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("binance kline %d: %d fields", i, len(row))
		}
		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("binance kline %d open time: %w", i, err)
		}
		var vals [5]float64
		for k := range vals {
			var s string
			if err := json.Unmarshal(row[k+1], &s); err != nil {
				return nil, fmt.Errorf("binance kline %d field %d: %w", i, k+1, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("binance kline %d field %d: %w", i, k+1, err)
			}
			vals[k] = v
		}
		out = append(out, model.Candle{
			Timestamp: openTime / 1000,
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    vals[4],
		})
	}
	return out, nil
}
