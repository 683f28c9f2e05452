// Package alarm owns the set of pending alarms and their waiters.
package alarm

import "time"

// State is the lifecycle of one alarm. Fired and Cancelled are terminal.
type State int

const (
	Pending State = iota
	Fired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Alarm is one timed trigger. IDs are unique and monotonically assigned
// for the lifetime of a Scheduler.
type Alarm struct {
	ID    int
	At    time.Time
	Label string
	State State
}
