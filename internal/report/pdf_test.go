package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
)

var projects = []project.Project{
	{ID: "a", Name: "Alpha"},
	{ID: "b", Name: "Beta"},
}

func TestRows(t *testing.T) {
	entries := []timelog.TimeEntry{
		{ProjectID: "a", Date: "2024-01-05", Hours: 3},
		{ProjectID: "b", Date: "2024-01-09", Hours: 1.5},
		{ProjectID: "a", Date: "2024-02-01", Hours: 1},
	}
	rows := Rows(aggregate.PeriodSeries(entries, projects, aggregate.Month, aggregate.All), projects)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Jan 2024" || rows[0][1] != "4.5h" || rows[0][2] != "Alpha 3.0h, Beta 1.5h" {
		t.Fatalf("row 0 = %q", rows[0])
	}
	if rows[1][2] != "Alpha 1.0h" {
		t.Fatalf("zero subtotals must be omitted, got %q", rows[1][2])
	}
}

func TestGeneratePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	series := aggregate.PeriodSeries([]timelog.TimeEntry{
		{ProjectID: "a", Date: "2024-01-05", Hours: 3},
	}, projects, aggregate.Month, aggregate.All)
	view := aggregate.View{Granularity: aggregate.Month, Filter: aggregate.All}

	if err := GeneratePDF(path, view, series, projects, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}
