// internal/domain/cycle/day.go
package cycle

import (
	"time"

	"medication_reminder_bot/internal/domain/medication"
)

// Day is one persisted row of the cycle table.
// Each flag moves from false to true at most once and never reverts.
type Day struct {
	CycleDate          time.Time // Midnight in the configured timezone
	MorningMessageSent bool
	EveningMessageSent bool
}

// Sent reports the delivery flag for tod.
func (d *Day) Sent(tod medication.TimeOfDay) bool {
	switch tod {
	case medication.Morning:
		return d.MorningMessageSent
	case medication.Evening:
		return d.EveningMessageSent
	default:
		return false
	}
}
