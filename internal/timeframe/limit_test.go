package timeframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScout/pkg/errors"
)

func TestCalculateLimit(t *testing.T) {
	tests := []struct {
		timeframe string
		timerange int
		want      int
	}{
		{"1m", 1, 43200},
		{"15m", 1, 2880},
		{"1h", 1, 720},
		{"4h", 2, 360},
		{"1d", 3, 90},
		{"1w", 1, 4},
		{"1M", 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			got, err := CalculateLimit(tt.timeframe, tt.timerange)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateLimit_Invalid(t *testing.T) {
	for _, tf := range []string{"", "h", "1y", "0h", "1hh", "-1h"} {
		_, err := CalculateLimit(tf, 1)
		require.Error(t, err, tf)
		assert.True(t, errors.Is(err, errors.ErrInvalidTimeframe), tf)
	}

	_, err := CalculateLimit("1h", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
