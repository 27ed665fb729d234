package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	for raw, hours := range map[string]int{
		"week":    168,
		"month":   672,
		"quarter": 2016,
	} {
		tf, err := ParseTimeframe(raw)
		require.NoError(t, err)
		assert.Equal(t, hours, tf.Hours())
	}
}

func TestParseTimeframeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "day", "year", "WEEK"} {
		_, err := ParseTimeframe(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeframe, "timeframe %q", raw)
	}
}
