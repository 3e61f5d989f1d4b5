package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

// DefaultCacheTTL bounds how stale a cached window may be.
const DefaultCacheTTL = time.Minute

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return rdb, nil
}

// CachedFetcher serves repeated requests for the same window from Redis.
// Cache failures are logged and fall through to the wrapped fetcher.
type CachedFetcher struct {
	next Fetcher
	rdb  *redis.Client
	ttl  time.Duration
	log  *logger.Logger
}

// NewCachedFetcher wraps next with a Redis cache whose entries expire after ttl.
func NewCachedFetcher(next Fetcher, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, log: log.With("component", "candle_cache")}
}

func (f *CachedFetcher) Name() string { return f.next.Name() + "+redis" }

func cacheKey(provider, symbol, interval string, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%s:%d", provider, symbol, interval, limit)
}

func (f *CachedFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (model.Series, error) {
	key := cacheKey(f.next.Name(), symbol, interval, limit)

	data, err := f.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s model.Series
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
		f.log.Warnf("discarding corrupt cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		f.log.Warnf("cache get %s: %v", key, err)
	}

	s, err := f.next.FetchCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(s); err == nil {
		if err := f.rdb.Set(ctx, key, data, f.ttl).Err(); err != nil {
			f.log.Warnf("cache set %s: %v", key, err)
		}
	}
	return s, nil
}
