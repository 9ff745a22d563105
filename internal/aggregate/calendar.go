package aggregate

import (
	"time"

	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
)

// UnknownProject labels entries whose project id resolves to nothing.
const UnknownProject = "Unknown"

type ProjectHours struct {
	ProjectID string
	Name      string
	Hours     float64
}

// Entry is a time entry annotated with its project name.
type Entry struct {
	timelog.TimeEntry
	ProjectName string
}

// Bucket aggregates one calendar day (month view) or one week (week view).
type Bucket struct {
	Total     float64
	ByProject map[string]ProjectHours
	// Entries is only filled for day buckets.
	Entries []Entry

	order []string
}

// Projects returns the per-project totals in first-seen order.
func (b Bucket) Projects() []ProjectHours {
	out := make([]ProjectHours, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.ByProject[id])
	}
	return out
}

// ProjectName resolves a project id for display.
func ProjectName(projects []project.Project, id string) string {
	for _, p := range projects {
		if p.ID == id {
			return p.Name
		}
	}
	return UnknownProject
}

// Calendar maps date keys to buckets: exact dates for Month, week starts for
// Week.
func Calendar(entries []timelog.TimeEntry, projects []project.Project, g Granularity, f Filter) map[string]Bucket {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return UnknownProject
	}

	cal := make(map[string]Bucket)
	for _, e := range entries {
		if !f.Matches(e.ProjectID) {
			continue
		}
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		key := FormatDate(d)
		if g == Week {
			key = FormatDate(WeekStart(d))
		}

		b, ok := cal[key]
		if !ok {
			b = Bucket{ByProject: make(map[string]ProjectHours)}
		}
		b.Total += e.Hours

		if e.ProjectID != "" {
			ph, seen := b.ByProject[e.ProjectID]
			if !seen {
				ph = ProjectHours{ProjectID: e.ProjectID, Name: nameOf(e.ProjectID)}
				b.order = append(b.order, e.ProjectID)
			}
			ph.Hours += e.Hours
			b.ByProject[e.ProjectID] = ph
		}

		if g == Month {
			b.Entries = append(b.Entries, Entry{TimeEntry: e, ProjectName: nameOf(e.ProjectID)})
		}
		cal[key] = b
	}
	return cal
}

// Cell is one day of the month grid.
type Cell struct {
	Date    time.Time
	InMonth bool
}

// GridCells is the fixed size of a month grid: six weeks of seven days.
const GridCells = 42

// MonthGrid lays out ref's month as 42 consecutive days starting at the
// Sunday on or before the 1st, padded with days of the following month.
func MonthGrid(ref time.Time) []Cell {
	first := MonthStart(ref)
	start := WeekStart(first)
	cells := make([]Cell, GridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{Date: d, InMonth: d.Month() == first.Month() && d.Year() == first.Year()}
	}
	return cells
}

// WeeksOfMonth lists the week starts (Sundays) of every week overlapping
// ref's month, beginning with the Sunday on or before the 1st. This is wider
// than the Sundays inside the month: a week that starts in the previous month
// or ends in the next one is still listed, so no day of the month is left out
// (March 2025 yields 2025-02-23 through 2025-03-30).
func WeeksOfMonth(ref time.Time) []time.Time {
	first := MonthStart(ref)
	next := first.AddDate(0, 1, 0)
	var weeks []time.Time
	for ws := WeekStart(first); ws.Before(next); ws = ws.AddDate(0, 0, 7) {
		weeks = append(weeks, ws)
	}
	return weeks
}
