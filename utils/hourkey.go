package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseHourKeyToDate parses an hour key back to a time
func ParseHourKeyToDate(hourKey string) (time.Time, error) {
	parts := strings.Split(hourKey, "-")
	if len(parts) != 4 {
		return time.Time{}, fmt.Errorf("invalid hour key format: %s", hourKey)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in hour key: %s", hourKey)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in hour key: %s", hourKey)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in hour key: %s", hourKey)
	}

	hour, err := strconv.Atoi(parts[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in hour key: %s", hourKey)
	}

	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC), nil
}

// FormatHourKey formats a time as an hour key
func FormatHourKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d-%02d", t.Year(), t.Month(), t.Day(), t.Hour())
}

// GetCurrentHourKey returns the current hour as a formatted key
func GetCurrentHourKey() string {
	now := time.Now().UTC()
	currentHour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
	return FormatHourKey(currentHour)
}

// GetHourKeysForTimeRange generates hour keys for the last N hours from now
func GetHourKeysForTimeRange(hours int) []string {
	var hourKeys []string
	now := time.Now().UTC()
	endHour := now.Truncate(time.Hour) // Current hour, inclusive
	startHour := endHour.Add(-time.Duration(hours) * time.Hour)

	for t := startHour; !t.After(endHour); t = t.Add(time.Hour) {
		hourKeys = append(hourKeys, FormatHourKey(t))
	}

	return hourKeys
}

// HourKeyForTime returns the hour key covering the given instant
func HourKeyForTime(t time.Time) string {
	return FormatHourKey(t.UTC().Truncate(time.Hour))
}
