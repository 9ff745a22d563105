package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/project"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// Rows flattens a period series into table rows: period, total, breakdown.
func Rows(series []aggregate.Point, projects []project.Project) [][]string {
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		rows = append(rows, []string{
			p.Label,
			fmt.Sprintf("%.1fh", p.Total),
			breakdown(p, projects),
		})
	}
	return rows
}

func breakdown(p aggregate.Point, projects []project.Project) string {
	if p.ByProject == nil {
		return ""
	}
	ids := make([]string, 0, len(p.ByProject))
	for id, h := range p.ByProject {
		if h > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s %.1fh", aggregate.ProjectName(projects, id), p.ByProject[id]))
	}
	return strings.Join(parts, ", ")
}

// GeneratePDF writes the period series for view to path.
func GeneratePDF(path string, view aggregate.View, series []aggregate.Point, projects []project.Project, generated time.Time) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	scope := "All Projects"
	if !view.Filter.IsAll() {
		scope = aggregate.ProjectName(projects, string(view.Filter))
	}
	by := "Monthly"
	if view.Granularity == aggregate.Week {
		by = "Weekly"
	}

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Project Time Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s totals, %s, generated %s", by, scope, generated.Format("2006-01-02 15:04")), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	headers := []string{"Period", "Hours", "By project"}
	rows := Rows(series, projects)
	if len(rows) == 0 {
		rows = [][]string{{"-", "0.0h", "no time recorded"}}
	}

	m.TableList(headers, rows, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{3, 2, 7},
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{3, 2, 7},
		},
		Align:                consts.Left,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	})

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %.1f hours", aggregate.SeriesTotal(series)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	return m.OutputFileAndClose(path)
}
