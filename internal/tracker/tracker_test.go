package tracker

import (
	"errors"
	"io"
	"log"
	"math"
	"testing"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/kv"
	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
	"tracker_tui/internal/timer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTracker(t *testing.T, store kv.Provider) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC)}
	tr, err := New(store, Options{Now: clock.Now, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr, clock
}

func mustNotice(t *testing.T, err error, want string) {
	t.Helper()
	n, ok := AsNotice(err)
	if !ok {
		t.Fatalf("expected notice %q, got %v", want, err)
	}
	if n.Message != want {
		t.Fatalf("notice = %q, want %q", n.Message, want)
	}
}

func assertInvariant(t *testing.T, tr *Tracker) {
	t.Helper()
	for _, p := range tr.Projects.All() {
		var sum float64
		for _, e := range tr.Entries.All() {
			if e.ProjectID == p.ID {
				sum += e.Hours
			}
		}
		if p.TotalHours != sum {
			t.Fatalf("project %s total %v != sum of entries %v", p.Name, p.TotalHours, sum)
		}
	}
}

func TestRecordManualTime_Example(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, err := tr.AddProject("Alpha")
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}

	e, err := tr.RecordManualTime(p.ID, "2.5", "2024-01-10")
	if err != nil {
		t.Fatalf("RecordManualTime: %v", err)
	}
	if e.Hours != 2.5 || e.Date != "2024-01-10" || e.ProjectID != p.ID {
		t.Fatalf("unexpected entry %+v", e)
	}
	got, _ := tr.Projects.Get(p.ID)
	if got.TotalHours != 2.5 {
		t.Fatalf("total = %v, want 2.5", got.TotalHours)
	}
	if msg := tr.Describe(e); msg != "Successfully recorded 2.5 hours for Alpha" {
		t.Fatalf("describe = %q", msg)
	}
	if e.Timestamp.Format(time.DateTime) != "2024-01-10 14:00:00" {
		t.Fatalf("timestamp = %v", e.Timestamp)
	}
}

func TestRecordManualTime_Validation(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	p, _ := tr.AddProject("Alpha")

	tests := []struct {
		name      string
		projectID string
		hours     string
		date      string
		want      string
	}{
		{"no project", "", "1", "", msgSelectAndHours},
		{"no hours", p.ID, "", "", msgSelectAndHours},
		{"unknown project", "nope", "1", "", msgSelectAndHours},
		{"not a number", p.ID, "abc", "", msgValidHours},
		{"zero", p.ID, "0", "", msgValidHours},
		{"negative", p.ID, "-1", "", msgValidHours},
		{"nan", p.ID, "NaN", "", msgValidHours},
		{"inf", p.ID, "Inf", "", msgValidHours},
		{"bad date", p.ID, "1", "2024-02-30", msgValidDate},
		{"future", p.ID, "1", "2024-01-21", msgFutureDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.RecordManualTime(tt.projectID, tt.hours, tt.date)
			mustNotice(t, err, tt.want)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation kind, got %v", err)
			}
		})
	}
	if tr.Entries.Len() != 0 || store.Writes[timelog.Key] != 0 {
		t.Fatalf("failed validation must not mutate")
	}
}

func TestRecordManualTime_DefaultsToToday(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")
	e, err := tr.RecordManualTime(p.ID, " 1.25 ", "")
	if err != nil {
		t.Fatalf("RecordManualTime: %v", err)
	}
	if e.Date != "2024-01-20" {
		t.Fatalf("date = %s", e.Date)
	}
}

func TestAddProject_Blank(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	_, err := tr.AddProject("   ")
	mustNotice(t, err, msgEnterProjectName)
}

func TestSetProjectStatus(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")
	if err := tr.SetProjectStatus(p.ID, project.StatusComplete); err != nil {
		t.Fatalf("SetProjectStatus: %v", err)
	}
	if err := tr.SetProjectStatus("missing", project.StatusComplete); err != nil {
		t.Fatalf("unknown id must be a no-op, got %v", err)
	}
	mustNotice(t, tr.SetProjectStatus(p.ID, "archived"), `Unknown status "archived"`)
}

func TestStartTimer_InactiveProjectNeverRuns(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")

	for _, st := range []project.Status{project.StatusComplete, project.StatusOnHold, project.StatusCancelled} {
		tr.SetProjectStatus(p.ID, st)
		for _, mode := range []timer.Mode{timer.CountUp, timer.CountDown} {
			err := tr.StartTimer(p.ID, mode, 5)
			mustNotice(t, err, msgOnlyActive)
			if !errors.Is(err, ErrInactive) {
				t.Fatalf("expected ErrInactive, got %v", err)
			}
			if tr.Timer.Active() {
				t.Fatalf("timer must stay idle for %s project", st)
			}
		}
	}
	mustNotice(t, tr.StartTimer("missing", timer.CountUp, 0), msgOnlyActive)
	if tr.Entries.Len() != 0 {
		t.Fatalf("no entries expected")
	}
}

func TestStartTimer_CountdownDurationGuard(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")
	for _, m := range []float64{0, -3, math.NaN(), math.Inf(1), 1e-15} {
		mustNotice(t, tr.StartTimer(p.ID, timer.CountDown, m), msgSetCountdown)
		if tr.Timer.Active() {
			t.Fatalf("duration %v must not start a timer", m)
		}
	}
}

func TestStartTimer_RejectsSecondTimer(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	a, _ := tr.AddProject("Alpha")
	b, _ := tr.AddProject("Beta")

	if err := tr.StartTimer(a.ID, timer.CountUp, 0); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	err := tr.StartTimer(b.ID, timer.CountUp, 0)
	mustNotice(t, err, msgTimerRunning)
	if tr.Timer.ProjectID() != a.ID {
		t.Fatalf("running timer was replaced")
	}
}

func TestCountUp_StopRecordsElapsedHours(t *testing.T) {
	tr, clock := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")

	tr.StartTimer(p.ID, timer.CountUp, 0)
	clock.Advance(30 * time.Minute)
	tr.PauseTimer()
	clock.Advance(2 * time.Hour)
	tr.ResumeTimer()
	clock.Advance(15 * time.Minute)

	e, err := tr.StopTimer()
	if err != nil {
		t.Fatalf("StopTimer: %v", err)
	}
	if e.Hours != 0.75 {
		t.Fatalf("hours = %v, want 0.75", e.Hours)
	}
	if e.Date != "2024-01-20" || !e.Timestamp.Equal(clock.Now()) {
		t.Fatalf("entry must be stamped at stop time: %+v", e)
	}
	if tr.Timer.Active() {
		t.Fatalf("expected idle")
	}
	assertInvariant(t, tr)
}

func TestCountDown_ExpiresViaTick(t *testing.T) {
	tr, clock := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")

	if err := tr.StartTimer(p.ID, timer.CountDown, 2); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	for i := 0; i < 119; i++ {
		clock.Advance(time.Second)
		n, err := tr.Tick()
		if err != nil || n != nil {
			t.Fatalf("tick %d: notice=%v err=%v", i, n, err)
		}
	}
	clock.Advance(time.Second)
	n, err := tr.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if n == nil || n.Message != "Timer finished!" {
		t.Fatalf("expected finished notice, got %v", n)
	}
	if tr.Timer.Active() {
		t.Fatalf("expected idle")
	}
	entries := tr.Entries.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	if math.Abs(entries[0].Hours-2.0/60) > 1e-12 {
		t.Fatalf("hours = %v, want %v", entries[0].Hours, 2.0/60)
	}
	if n, _ := tr.Tick(); n != nil {
		t.Fatalf("no further notices after expiry")
	}
	assertInvariant(t, tr)
}

func TestCountDown_EarlyStopCreditsFullDuration(t *testing.T) {
	tr, clock := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")

	tr.StartTimer(p.ID, timer.CountDown, 30)
	clock.Advance(5 * time.Minute)
	e, err := tr.StopTimer()
	if err != nil {
		t.Fatalf("StopTimer: %v", err)
	}
	if e.Hours != 0.5 {
		t.Fatalf("hours = %v, want 0.5", e.Hours)
	}
}

func TestTimerIntentsWithoutTimer(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	mustNotice(t, tr.PauseTimer(), msgNoTimer)
	mustNotice(t, tr.ResumeTimer(), msgNoTimer)
	_, err := tr.StopTimer()
	mustNotice(t, err, msgNoTimer)
}

func TestPauseResume_IdempotentNoops(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	p, _ := tr.AddProject("Alpha")
	tr.StartTimer(p.ID, timer.CountUp, 0)
	if err := tr.ResumeTimer(); err != nil {
		t.Fatalf("resume while running: %v", err)
	}
	tr.PauseTimer()
	if err := tr.PauseTimer(); err != nil {
		t.Fatalf("pause while paused: %v", err)
	}
}

func TestInvariant_MixedSequence(t *testing.T) {
	store := kv.NewMemory()
	tr, clock := newTracker(t, store)
	a, _ := tr.AddProject("Alpha")
	b, _ := tr.AddProject("Beta")

	for i, h := range []string{"0.1", "0.2", "0.3", "1.7", "0.05"} {
		id := a.ID
		if i%2 == 1 {
			id = b.ID
		}
		if _, err := tr.RecordManualTime(id, h, "2024-01-15"); err != nil {
			t.Fatalf("RecordManualTime: %v", err)
		}
		tr.StartTimer(id, timer.CountUp, 0)
		clock.Advance(time.Duration(i+1) * 7 * time.Minute)
		if _, err := tr.StopTimer(); err != nil {
			t.Fatalf("StopTimer: %v", err)
		}
		assertInvariant(t, tr)
	}

	reopened, _ := newTracker(t, store)
	assertInvariant(t, reopened)
	if reopened.Entries.Len() != 10 {
		t.Fatalf("expected 10 persisted entries, got %d", reopened.Entries.Len())
	}
}

func TestNew_ReconcilesDriftedTotals(t *testing.T) {
	store := kv.NewMemory()
	store.Set(project.Key, `[{"id":"p1","name":"Alpha","status":"active","totalHours":99}]`)
	store.Set(timelog.Key, `[{"id":"e1","projectId":"p1","hours":1.5,"date":"2024-01-02","timestamp":"2024-01-02T10:00:00Z"}]`)

	tr, _ := newTracker(t, store)
	p, _ := tr.Projects.Get("p1")
	if p.TotalHours != 1.5 {
		t.Fatalf("total = %v, want reconciled 1.5", p.TotalHours)
	}
}

func TestRecordManualTime_RejectsOverflowingTotal(t *testing.T) {
	store := kv.NewMemory()
	tr, _ := newTracker(t, store)
	p, _ := tr.AddProject("Alpha")

	if _, err := tr.RecordManualTime(p.ID, "1e308", "2024-01-10"); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	_, err := tr.RecordManualTime(p.ID, "1e308", "2024-01-11")
	mustNotice(t, err, "Please enter a valid number of hours")
	if tr.Entries.Len() != 1 {
		t.Fatalf("rejected entry must not be stored, got %d entries", tr.Entries.Len())
	}
	assertInvariant(t, tr)

	reopened, _ := newTracker(t, store)
	assertInvariant(t, reopened)
}

func TestNew_NonFiniteEntrySumDoesNotFail(t *testing.T) {
	store := kv.NewMemory()
	store.Set(project.Key, `[{"id":"p1","name":"Alpha","status":"active","totalHours":1e308}]`)
	store.Set(timelog.Key, `[`+
		`{"id":"e1","projectId":"p1","hours":1e308,"date":"2024-01-02","timestamp":"2024-01-02T10:00:00Z"},`+
		`{"id":"e2","projectId":"p1","hours":1e308,"date":"2024-01-03","timestamp":"2024-01-03T10:00:00Z"}]`)

	tr, err := New(store, Options{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, _ := tr.Projects.Get("p1")
	if math.IsInf(p.TotalHours, 0) || p.TotalHours != 1e308 {
		t.Fatalf("stored total must be kept, got %v", p.TotalHours)
	}
}

func TestClose_RecordsRunningTimer(t *testing.T) {
	store := kv.NewMemory()
	tr, clock := newTracker(t, store)
	p, _ := tr.AddProject("Alpha")
	tr.StartTimer(p.ID, timer.CountUp, 0)
	clock.Advance(6 * time.Minute)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, _ := newTracker(t, store)
	got, _ := reopened.Projects.Get(p.ID)
	if math.Abs(got.TotalHours-0.1) > 1e-12 {
		t.Fatalf("total = %v, want 0.1", got.TotalHours)
	}
}

func TestAggregationView(t *testing.T) {
	tr, _ := newTracker(t, kv.NewMemory())
	a, _ := tr.AddProject("Alpha")
	b, _ := tr.AddProject("Beta")
	tr.RecordManualTime(a.ID, "3", "2024-01-05")
	tr.RecordManualTime(b.ID, "1", "2023-12-30")

	series := tr.Series()
	if len(series) != 2 || series[0].Label != "Dec 2023" || series[1].Total != 3 {
		t.Fatalf("series %+v", series)
	}

	if err := tr.SetAggregationView(aggregate.Week, aggregate.Filter(b.ID)); err != nil {
		t.Fatalf("SetAggregationView: %v", err)
	}
	cal := tr.Calendar()
	if len(cal) != 1 || cal["2023-12-24"].Total != 1 {
		t.Fatalf("calendar %+v", cal)
	}

	mustNotice(t, tr.SetAggregationView(aggregate.Month, "nope"), msgUnknownProject)
	if err := tr.SetAggregationView("year", aggregate.All); err == nil {
		t.Fatalf("expected granularity notice")
	}

	tr.SetAggregationView(aggregate.Month, aggregate.All)
	tr.NavigatePeriod(-1)
	if tr.View.Title() != "December 2023" {
		t.Fatalf("title = %q", tr.View.Title())
	}
}
