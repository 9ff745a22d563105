package aggregate

import (
	"time"

	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
)

// View is the calendar and chart selection: granularity, project filter
// and the reference date being browsed.
type View struct {
	Granularity Granularity
	Filter      Filter
	Reference   time.Time
}

func NewView(g Granularity, now time.Time) View {
	if g != Week {
		g = Month
	}
	return View{Granularity: g, Filter: All, Reference: Day(now)}
}

// Navigate moves the reference date by direction months (month view) or
// direction weeks (week view). Month steps land on the 1st so short months
// are never skipped.
func (v View) Navigate(direction int) View {
	if v.Granularity == Week {
		v.Reference = v.Reference.AddDate(0, 0, 7*direction)
	} else {
		v.Reference = MonthStart(v.Reference).AddDate(0, direction, 0)
	}
	return v
}

// Title is the heading for the browsed period, e.g. "January 2024".
func (v View) Title() string {
	return v.Reference.Format("January 2006")
}

func (v View) Series(entries []timelog.TimeEntry, projects []project.Project) []Point {
	return PeriodSeries(entries, projects, v.Granularity, v.Filter)
}

func (v View) Calendar(entries []timelog.TimeEntry, projects []project.Project) map[string]Bucket {
	return Calendar(entries, projects, v.Granularity, v.Filter)
}
