// internal/domain/cycle/window.go
package cycle

import (
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/medication"
)

// State of a (date, time-of-day) reminder.
type State string

const (
	StatePending State = "PENDING" // Not sent, outside the window
	StateDue     State = "DUE"     // Not sent, inside the window; the only state that dispatches
	StateSent    State = "SENT"    // Terminal for that day and time of day
)

// Window is a local wall-clock interval with minute granularity.
// Both the start and the end minute are inside the window.
type Window struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

var (
	MorningWindow = Window{StartHour: 7, StartMinute: 0, EndHour: 7, EndMinute: 5}
	EveningWindow = Window{StartHour: 17, StartMinute: 25, EndHour: 18, EndMinute: 1}
)

// WindowFor returns the delivery window of tod.
func WindowFor(tod medication.TimeOfDay) Window {
	if tod == medication.Evening {
		return EveningWindow
	}
	return MorningWindow
}

// Contains reports whether the wall clock of now, in now's location, lies in the window.
func (w Window) Contains(now time.Time) bool {
	m := now.Hour()*60 + now.Minute()
	return m >= w.StartHour*60+w.StartMinute && m <= w.EndHour*60+w.EndMinute
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.StartHour, w.StartMinute, w.EndHour, w.EndMinute)
}

// Evaluate decides the reminder state of day at tod for the instant now.
// now must already be in the plan's timezone.
func Evaluate(day *Day, tod medication.TimeOfDay, now time.Time) State {
	if day.Sent(tod) {
		return StateSent
	}
	if WindowFor(tod).Contains(now) {
		return StateDue
	}
	return StatePending
}
