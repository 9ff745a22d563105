// Package tracker holds the application state of a session: the project and
// time entry stores, the single timer and the calendar view. Every user
// intent is a method on Tracker and runs synchronously on the caller's
// goroutine.
package tracker

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/kv"
	"tracker_tui/internal/project"
	"tracker_tui/internal/timelog"
	"tracker_tui/internal/timer"
)

type Options struct {
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *log.Logger
	View   aggregate.Granularity
}

type Tracker struct {
	Projects *project.Repository
	Entries  *timelog.Repository
	Timer    *timer.Timer
	View     aggregate.View

	now    func() time.Time
	logger *log.Logger
}

func New(store kv.Provider, opts Options) (*Tracker, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	projects, err := project.NewRepository(store)
	if err != nil {
		return nil, err
	}
	entries, err := timelog.NewRepository(store)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		Projects: projects,
		Entries:  entries,
		Timer:    timer.New(),
		View:     aggregate.NewView(opts.View, opts.Now()),
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if err := t.reconcile(); err != nil {
		t.logger.Printf("reconcile: %v", err)
	}
	return t, nil
}

// reconcile recomputes every project's total from the entries and rewrites
// the project list when a stored total has drifted.
func (t *Tracker) reconcile() error {
	totals := t.Entries.Totals()
	drifted := false
	for _, p := range t.Projects.All() {
		if sum := totals[p.ID]; math.IsInf(sum, 0) || math.IsNaN(sum) {
			t.logger.Printf("reconcile: project %s entries sum to %v, keeping stored total", p.ID, sum)
			totals[p.ID] = p.TotalHours
			continue
		}
		if p.TotalHours != totals[p.ID] {
			t.logger.Printf("reconcile: project %s total %.4f != entries %.4f", p.ID, p.TotalHours, totals[p.ID])
			drifted = true
		}
	}
	if !drifted {
		return nil
	}
	if err := t.Projects.SetTotals(totals); err != nil {
		return fmt.Errorf("reconcile totals: %w", err)
	}
	return nil
}

func (t *Tracker) Now() time.Time {
	return t.now()
}

func (t *Tracker) AddProject(name string) (project.Project, error) {
	p, err := t.Projects.Add(name)
	if errors.Is(err, project.ErrEmptyName) {
		return project.Project{}, notice(ErrValidation, msgEnterProjectName)
	}
	if err != nil {
		return project.Project{}, err
	}
	t.logger.Printf("project added: %s %q", p.ID, p.Name)
	return p, nil
}

// SetProjectStatus changes a project's status; unknown ids are ignored.
func (t *Tracker) SetProjectStatus(id string, status project.Status) error {
	changed, err := t.Projects.SetStatus(id, status)
	if errors.Is(err, project.ErrInvalidStatus) {
		return notice(ErrValidation, msgUnknownStatus, string(status))
	}
	if err != nil {
		return err
	}
	if changed {
		t.logger.Printf("project %s status: %s", id, status)
	}
	return nil
}

// RecordManualTime validates and records hours against a project. An empty
// date means today; dates after today are rejected.
func (t *Tracker) RecordManualTime(projectID, hours, date string) (timelog.TimeEntry, error) {
	hours = strings.TrimSpace(hours)
	if projectID == "" || hours == "" {
		return timelog.TimeEntry{}, notice(ErrValidation, msgSelectAndHours)
	}
	p, ok := t.Projects.Get(projectID)
	if !ok {
		return timelog.TimeEntry{}, notice(ErrValidation, msgSelectAndHours)
	}

	h, err := strconv.ParseFloat(hours, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return timelog.TimeEntry{}, notice(ErrValidation, msgValidHours)
	}
	if math.IsInf(p.TotalHours+h, 0) {
		return timelog.TimeEntry{}, notice(ErrValidation, msgValidHours)
	}

	now := t.now()
	today := aggregate.Today(now)
	date = strings.TrimSpace(date)
	if date == "" {
		date = today
	}
	d, err := aggregate.ParseDate(date)
	if err != nil {
		return timelog.TimeEntry{}, notice(ErrValidation, msgValidDate)
	}
	if date > today {
		return timelog.TimeEntry{}, notice(ErrValidation, msgFutureDate)
	}

	stamp := time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	e, err := t.record(p.ID, h, date, stamp)
	if err != nil {
		return timelog.TimeEntry{}, err
	}
	t.logger.Printf("manual entry: %s %.4fh on %s", p.ID, h, date)
	return e, nil
}

// Describe is the confirmation shown after a manual entry.
func (t *Tracker) Describe(e timelog.TimeEntry) string {
	name := "project"
	if p, ok := t.Projects.Get(e.ProjectID); ok {
		name = p.Name
	}
	return fmt.Sprintf(msgRecorded, strconv.FormatFloat(e.Hours, 'f', -1, 64), name)
}

// record appends an entry and credits its project. The entry is written
// first; a failure crediting the project is repaired by reconcile on the
// next start.
func (t *Tracker) record(projectID string, hours float64, date string, stamp time.Time) (timelog.TimeEntry, error) {
	e, err := t.Entries.Append(timelog.TimeEntry{
		ProjectID: projectID,
		Hours:     hours,
		Date:      date,
		Timestamp: stamp,
	})
	if err != nil {
		return timelog.TimeEntry{}, err
	}
	if err := t.Projects.AddHours(projectID, hours); err != nil {
		return e, fmt.Errorf("credit project: %w", err)
	}
	return e, nil
}

// StartTimer starts the session timer. durationMinutes is only used for
// count-down and must be positive.
func (t *Tracker) StartTimer(projectID string, mode timer.Mode, durationMinutes float64) error {
	p, ok := t.Projects.Get(projectID)
	if !ok || !p.IsActive() {
		return notice(ErrInactive, msgOnlyActive)
	}

	var d time.Duration
	if mode == timer.CountDown {
		if math.IsNaN(durationMinutes) || math.IsInf(durationMinutes, 0) || durationMinutes <= 0 {
			return notice(ErrValidation, msgSetCountdown)
		}
		d = time.Duration(durationMinutes * float64(time.Minute))
	}

	err := t.Timer.Start(p.ID, mode, d, t.now())
	switch {
	case errors.Is(err, timer.ErrActive):
		return notice(ErrTimerActive, msgTimerRunning)
	case errors.Is(err, timer.ErrInvalidDuration):
		return notice(ErrValidation, msgSetCountdown)
	case err != nil:
		return err
	}
	t.logger.Printf("timer started: %s mode=%s duration=%s", p.ID, mode, d)
	return nil
}

// PauseTimer pauses a running timer. Pausing a paused timer does nothing.
func (t *Tracker) PauseTimer() error {
	err := t.Timer.Pause(t.now())
	switch {
	case errors.Is(err, timer.ErrIdle):
		return notice(ErrNoTimer, msgNoTimer)
	case errors.Is(err, timer.ErrNotRunning):
		return nil
	case err != nil:
		return err
	}
	t.logger.Printf("timer paused: %s", t.Timer.ProjectID())
	return nil
}

// ResumeTimer resumes a paused timer. Resuming a running timer does nothing.
func (t *Tracker) ResumeTimer() error {
	err := t.Timer.Resume(t.now())
	switch {
	case errors.Is(err, timer.ErrIdle):
		return notice(ErrNoTimer, msgNoTimer)
	case errors.Is(err, timer.ErrNotPaused):
		return nil
	case err != nil:
		return err
	}
	t.logger.Printf("timer resumed: %s", t.Timer.ProjectID())
	return nil
}

// StopTimer ends the session and records its entry. The returned entry is
// zero when the session credited no time.
func (t *Tracker) StopTimer() (timelog.TimeEntry, error) {
	c, err := t.Timer.Stop(t.now())
	if errors.Is(err, timer.ErrIdle) {
		return timelog.TimeEntry{}, notice(ErrNoTimer, msgNoTimer)
	}
	if err != nil {
		return timelog.TimeEntry{}, err
	}
	return t.complete(c)
}

func (t *Tracker) complete(c timer.Completion) (timelog.TimeEntry, error) {
	hours := timelog.Hours(c.Credited)
	t.logger.Printf("timer stopped: %s mode=%s credited=%s expired=%v", c.ProjectID, c.Mode, c.Credited, c.Expired)
	if hours <= 0 {
		return timelog.TimeEntry{}, nil
	}
	if p, ok := t.Projects.Get(c.ProjectID); ok && math.IsInf(p.TotalHours+hours, 0) {
		return timelog.TimeEntry{}, notice(ErrValidation, msgValidHours)
	}
	return t.record(c.ProjectID, hours, aggregate.Today(c.StoppedAt), c.StoppedAt)
}

// Tick advances the session clock. When a count-down runs out it is
// stopped, its entry recorded and the "Timer finished!" notice returned.
func (t *Tracker) Tick() (*Notice, error) {
	c, done := t.Timer.Tick(t.now())
	if !done {
		return nil, nil
	}
	if _, err := t.complete(c); err != nil {
		return nil, err
	}
	return &Notice{Message: msgTimerFinished}, nil
}

// TimerDisplay is the clock-face value of the active timer.
func (t *Tracker) TimerDisplay() time.Duration {
	return t.Timer.Display(t.now())
}

func (t *Tracker) SetAggregationView(g aggregate.Granularity, f aggregate.Filter) error {
	if _, err := aggregate.ParseGranularity(string(g)); err != nil {
		return notice(ErrValidation, "%s", err.Error())
	}
	if !f.IsAll() {
		if _, ok := t.Projects.Get(string(f)); !ok {
			return notice(ErrValidation, msgUnknownProject)
		}
	}
	t.View.Granularity = g
	t.View.Filter = f
	return nil
}

// NavigatePeriod moves the browsed period; direction is -1 or +1.
func (t *Tracker) NavigatePeriod(direction int) {
	t.View = t.View.Navigate(direction)
}

func (t *Tracker) Series() []aggregate.Point {
	return t.View.Series(t.Entries.All(), t.Projects.All())
}

func (t *Tracker) Calendar() map[string]aggregate.Bucket {
	return t.View.Calendar(t.Entries.All(), t.Projects.All())
}

// Close stops an active timer so its time is recorded before shutdown.
func (t *Tracker) Close() error {
	if !t.Timer.Active() {
		return nil
	}
	_, err := t.StopTimer()
	return err
}
