package analytics

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeframe is returned for unrecognized rollup windows. Unknown
// values fail loudly rather than silently defaulting.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// ErrUnknownAggregate marks queries for a visitor or content id that was
// never tracked. Query paths translate it into a neutral default; tracking
// paths create the aggregate instead of erroring.
var ErrUnknownAggregate = errors.New("unknown aggregate")

// Timeframe is the closed rollup window enum.
type Timeframe string

const (
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

// ParseTimeframe validates a raw timeframe string against the closed enum.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch Timeframe(raw) {
	case TimeframeWeek, TimeframeMonth, TimeframeQuarter:
		return Timeframe(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, raw)
}

// Hours returns the window size in hours, matching the hourly rollup bins.
func (t Timeframe) Hours() int {
	switch t {
	case TimeframeWeek:
		return 168
	case TimeframeMonth:
		return 672
	case TimeframeQuarter:
		return 2016
	default:
		return 0
	}
}
