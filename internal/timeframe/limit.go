package timeframe

import (
	"regexp"
	"strconv"

	"PatternScout/pkg/errors"
)

// MinutesPerMonth is the month length used to size candle windows (30 days).
const MinutesPerMonth = 30 * 24 * 60

var pattern = regexp.MustCompile(`^(\d+)([mhdwM])$`)

// Minutes returns the length of one candle of the given timeframe, e.g. "15m", "4h", "1w", "1M".
func Minutes(timeframe string) (int, error) {
	m := pattern.FindStringSubmatch(timeframe)
	if m == nil {
		return 0, errors.Wrapf(errors.ErrInvalidTimeframe, "parse %q", timeframe)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidTimeframe, "non-positive multiplier in %q", timeframe)
	}
	switch m[2] {
	case "m":
		return n, nil
	case "h":
		return n * 60, nil
	case "d":
		return n * 24 * 60, nil
	case "w":
		return n * 7 * 24 * 60, nil
	case "M":
		return n * MinutesPerMonth, nil
	}
	return 0, errors.Wrapf(errors.ErrInvalidTimeframe, "unknown unit %q", m[2])
}

// CalculateLimit returns how many candles of timeframe cover timerange months.
func CalculateLimit(timeframe string, timerange int) (int, error) {
	if timerange <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "timerange must be positive, got %d", timerange)
	}
	minutes, err := Minutes(timeframe)
	if err != nil {
		return 0, err
	}
	return int(float64(MinutesPerMonth) / float64(minutes) * float64(timerange)), nil
}
