package models

import (
	"fmt"
	"time"
)

// Granularity is the fixed width of an aggregation window. Week and month are
// fixed-width (7 and 30 days), not calendar-aligned.
type Granularity string

const (
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
	GranularityDay    Granularity = "day"
	GranularityWeek   Granularity = "week"
	GranularityMonth  Granularity = "month"
)

// AllGranularities lists every rollup granularity in ascending window size.
var AllGranularities = []Granularity{
	GranularityMinute,
	GranularityHour,
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
}

func NewGranularityFromString(s string) (Granularity, error) {
	g := Granularity(s)
	switch g {
	case GranularityMinute, GranularityHour, GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	}
	return "", fmt.Errorf("invalid granularity: %q", s)
}

func (g Granularity) Duration() time.Duration {
	switch g {
	case GranularityMinute:
		return time.Minute
	case GranularityHour:
		return time.Hour
	case GranularityDay:
		return 24 * time.Hour
	case GranularityWeek:
		return 7 * 24 * time.Hour
	case GranularityMonth:
		return 30 * 24 * time.Hour
	default:
		panic(fmt.Sprintf("invalid Granularity: %q", g))
	}
}

// Truncate aligns t (in UTC) to the start of its window.
func (g Granularity) Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(g.Duration())
}

// Window returns the rollup window [start, end) ending at the tick asOf.
func (g Granularity) Window(asOf time.Time) (start, end time.Time) {
	end = g.Truncate(asOf)
	return end.Add(-g.Duration()), end
}

func (g Granularity) stampLayout() string {
	switch g {
	case GranularityMinute:
		return "20060102T1504Z"
	case GranularityHour:
		return "20060102T15Z"
	case GranularityDay, GranularityWeek, GranularityMonth:
		return "20060102Z"
	}
	return ""
}

// FormatWindowStart renders a window start as a compact UTC stamp used in
// storage keys. The stamp keeps only the components the granularity resolves.
func (g Granularity) FormatWindowStart(t time.Time) string {
	return g.Truncate(t).Format(g.stampLayout())
}

// ParseWindowStart is the inverse of FormatWindowStart.
func (g Granularity) ParseWindowStart(stamp string) (time.Time, error) {
	t, err := time.Parse(g.stampLayout(), stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s window stamp %q: %w", g, stamp, err)
	}
	return t.UTC(), nil
}
