package compose

import "time"

// Timer is a cancellable scheduled task.
type Timer interface {
	// Stop cancels the task. It reports false if the task already ran or was stopped.
	Stop() bool
}

// Clock schedules the session's delayed tasks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules tasks with the time package.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Verify RealClock implements Clock
var _ Clock = RealClock{}
