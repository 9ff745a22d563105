package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrTimerActive = errors.New("timer already running")
	ErrNoTimer     = errors.New("no timer running")
	ErrInactive    = errors.New("project is not active")
)

// Notice is a user-displayable message. Validation failures are returned as
// *Notice errors; Kind carries the underlying sentinel for errors.Is.
type Notice struct {
	Kind    error
	Message string
}

func (n *Notice) Error() string {
	if n == nil {
		return ""
	}
	return n.Message
}

func (n *Notice) Unwrap() error { return n.Kind }

func notice(kind error, format string, args ...any) error {
	return &Notice{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsNotice extracts the user-facing notice from err, if it is one.
func AsNotice(err error) (*Notice, bool) {
	var n *Notice
	if errors.As(err, &n) {
		return n, true
	}
	return nil, false
}

const (
	msgEnterProjectName = "Please enter a project name"
	msgSelectAndHours   = "Please select a project and enter hours"
	msgValidHours       = "Please enter a valid number of hours"
	msgValidDate        = "Please enter a valid date"
	msgFutureDate       = "Date cannot be in the future"
	msgOnlyActive       = "Only active projects can use the timer"
	msgSetCountdown     = "Please set a countdown duration"
	msgTimerRunning     = "A timer is already running"
	msgNoTimer          = "No timer is running"
	msgUnknownProject   = "Unknown project"
	msgUnknownStatus    = "Unknown status %q"
	msgTimerFinished    = "Timer finished!"
	msgRecorded         = "Successfully recorded %s hours for %s"
)
