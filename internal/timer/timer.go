package timer

import (
	"errors"
	"time"
)

type Mode int

const (
	CountUp Mode = iota
	CountDown
)

func (m Mode) String() string {
	if m == CountDown {
		return "down"
	}
	return "up"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "up", "count-up":
		return CountUp, nil
	case "down", "count-down":
		return CountDown, nil
	}
	return CountUp, errors.New("timer mode must be up or down")
}

type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "idle"
}

var (
	ErrActive          = errors.New("a timer is already active")
	ErrIdle            = errors.New("no timer is active")
	ErrNotRunning      = errors.New("timer is not running")
	ErrNotPaused       = errors.New("timer is not paused")
	ErrInvalidDuration = errors.New("countdown duration must be positive")
)

// Completion describes a finished timer session.
type Completion struct {
	ProjectID string
	Mode      Mode
	// Credited is the time to record: elapsed time for count-up, the full
	// configured duration for count-down.
	Credited  time.Duration
	Elapsed   time.Duration
	Expired   bool
	StoppedAt time.Time
}

// Timer is the single session stopwatch. It never reads the wall clock;
// every operation takes the current instant, and Tick is the only way time
// advances a count-down to expiry.
type Timer struct {
	state       State
	mode        Mode
	projectID   string
	started     time.Time
	accumulated time.Duration
	duration    time.Duration
}

func New() *Timer {
	return &Timer{}
}

func (t *Timer) State() State      { return t.state }
func (t *Timer) Mode() Mode        { return t.mode }
func (t *Timer) ProjectID() string { return t.projectID }
func (t *Timer) Running() bool     { return t.state == Running }
func (t *Timer) Paused() bool      { return t.state == Paused }
func (t *Timer) Active() bool      { return t.state != Idle }

// Duration is the configured count-down length.
func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) Start(projectID string, mode Mode, duration time.Duration, now time.Time) error {
	if t.state != Idle {
		return ErrActive
	}
	if mode == CountDown && duration <= 0 {
		return ErrInvalidDuration
	}
	if mode == CountUp {
		duration = 0
	}
	*t = Timer{
		state:     Running,
		mode:      mode,
		projectID: projectID,
		started:   now,
		duration:  duration,
	}
	return nil
}

func (t *Timer) Pause(now time.Time) error {
	switch t.state {
	case Idle:
		return ErrIdle
	case Paused:
		return ErrNotRunning
	}
	t.accumulated += segment(t.started, now)
	t.started = now
	t.state = Paused
	return nil
}

func (t *Timer) Resume(now time.Time) error {
	switch t.state {
	case Idle:
		return ErrIdle
	case Running:
		return ErrNotPaused
	}
	t.started = now
	t.state = Running
	return nil
}

// Elapsed is the running time so far, excluding paused spans.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	switch t.state {
	case Running:
		return t.accumulated + segment(t.started, now)
	case Paused:
		return t.accumulated
	}
	return 0
}

// Remaining is the count-down time left; it goes negative once overdue.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.mode != CountDown || t.state == Idle {
		return 0
	}
	return t.duration - t.Elapsed(now)
}

// Display is the value shown on the clock face.
func (t *Timer) Display(now time.Time) time.Duration {
	if t.mode == CountDown {
		return t.Remaining(now)
	}
	return t.Elapsed(now)
}

func (t *Timer) Stop(now time.Time) (Completion, error) {
	if t.state == Idle {
		return Completion{}, ErrIdle
	}
	c := Completion{
		ProjectID: t.projectID,
		Mode:      t.mode,
		Elapsed:   t.Elapsed(now),
		StoppedAt: now,
	}
	if t.mode == CountDown {
		c.Credited = t.duration
		c.Expired = c.Elapsed >= t.duration
	} else {
		c.Credited = c.Elapsed
	}
	*t = Timer{}
	return c, nil
}

// Tick advances the clock to now. A running count-down whose remaining time
// is zero or below stops, and the completion is returned with true.
func (t *Timer) Tick(now time.Time) (Completion, bool) {
	if t.state != Running || t.mode != CountDown {
		return Completion{}, false
	}
	if t.Remaining(now) > 0 {
		return Completion{}, false
	}
	c, err := t.Stop(now)
	if err != nil {
		return Completion{}, false
	}
	return c, true
}

func segment(from, to time.Time) time.Duration {
	if to.Before(from) {
		return 0
	}
	return to.Sub(from)
}
