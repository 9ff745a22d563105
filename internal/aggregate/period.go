package aggregate

import (
	"sort"
	"time"

	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
)

// Point is one bucket of the trend series.
type Point struct {
	Key   string
	Start time.Time
	Label string
	Total float64
	// ByProject holds per-project subtotals keyed by project id. It is only
	// populated for the unfiltered series; every known project has a key.
	ByProject map[string]float64
}

// PeriodSeries groups entries by month or week and sums their hours,
// ascending by period.
func PeriodSeries(entries []timelog.TimeEntry, projects []project.Project, g Granularity, f Filter) []Point {
	buckets := make(map[string]*Point)
	for _, e := range entries {
		if !f.Matches(e.ProjectID) {
			continue
		}
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		key, start := periodKey(d, g)
		p, ok := buckets[key]
		if !ok {
			p = &Point{Key: key, Start: start, Label: PeriodLabel(start, g)}
			if f.IsAll() {
				p.ByProject = make(map[string]float64, len(projects))
				for _, pr := range projects {
					p.ByProject[pr.ID] = 0
				}
			}
			buckets[key] = p
		}
		p.Total += e.Hours
		if p.ByProject != nil {
			p.ByProject[e.ProjectID] += e.Hours
		}
	}

	series := make([]Point, 0, len(buckets))
	for _, p := range buckets {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })
	return series
}

// SeriesTotal sums the totals of a series.
func SeriesTotal(series []Point) float64 {
	var total float64
	for _, p := range series {
		total += p.Total
	}
	return total
}
