package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourKeyRoundTrip(t *testing.T) {
	original := time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)

	key := FormatHourKey(original)
	assert.Equal(t, "2026-03-07-14", key)

	parsed, err := ParseHourKeyToDate(key)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(original))
}

func TestParseHourKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "2026-03-07", "2026-03-07-14-30", "yyyy-03-07-14"} {
		_, err := ParseHourKeyToDate(raw)
		assert.Error(t, err, "key %q", raw)
	}
}

func TestHourKeyForTimeTruncates(t *testing.T) {
	instant := time.Date(2026, time.March, 7, 14, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-07-14", HourKeyForTime(instant))
}

func TestGetHourKeysForTimeRange(t *testing.T) {
	keys := GetHourKeysForTimeRange(24)

	// Inclusive of both the start hour and the current hour
	require.Len(t, keys, 25)

	first, err := ParseHourKeyToDate(keys[0])
	require.NoError(t, err)
	last, err := ParseHourKeyToDate(keys[len(keys)-1])
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, last.Sub(first))
	assert.Equal(t, GetCurrentHourKey(), keys[len(keys)-1])
}
