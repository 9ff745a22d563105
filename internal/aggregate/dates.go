// Package aggregate derives per-day, per-week and per-month summaries from
// time entries. Every function is pure; dates are handled as calendar days
// in UTC so week and month boundaries never shift with the local zone.
package aggregate

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Granularity string

const (
	Month Granularity = "month"
	Week  Granularity = "week"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Month, Week:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("view must be %q or %q, got %q", Month, Week, s)
}

// Filter selects entries by project id; All selects every entry.
type Filter string

const All Filter = "all"

func (f Filter) IsAll() bool { return f == All || f == "" }

func (f Filter) Matches(projectID string) bool {
	return f.IsAll() || string(f) == projectID
}

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day drops the clock and zone of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart is the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// Today is the local calendar date of now, as YYYY-MM-DD.
func Today(now time.Time) string {
	return FormatDate(Day(now))
}

// periodKey buckets a date into its month or week key.
func periodKey(d time.Time, g Granularity) (string, time.Time) {
	if g == Week {
		ws := WeekStart(d)
		return FormatDate(ws), ws
	}
	ms := MonthStart(d)
	return ms.Format(MonthLayout), ms
}

// PeriodLabel formats a period start for chart axes: "Jan 2024" for months,
// "Jan 7" for weeks.
func PeriodLabel(start time.Time, g Granularity) string {
	if g == Week {
		return start.Format("Jan 2")
	}
	return start.Format("Jan 2006")
}
