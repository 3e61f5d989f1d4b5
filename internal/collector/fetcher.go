package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"PatternScout/internal/model"
)

// Fetcher loads closed OHLCV candles from a market data source. An empty
// series is a valid answer.
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) (model.Series, error)
	Name() string
}

// newHTTPClient builds a client that routes through proxyURL when set.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
