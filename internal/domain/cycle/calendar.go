// Package cycle computes the calendar covered by a medication plan and tracks,
// per cycle day, whether the morning and evening reminders were delivered.
package cycle

import (
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/medication"
)

// DateLayout is the ISO calendar date format used in plan files and storage.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight of its calendar day in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return d, nil
}

// EndDate is the first day after the last cycle day.
func EndDate(plan *medication.Plan) time.Time {
	return DateOf(plan.CycleStartDate).AddDate(0, 0, plan.LengthOfCyclesInDays*plan.NumberOfCycles)
}

// DateRange returns every date in [start, EndDate) in ascending order.
func DateRange(plan *medication.Plan) []time.Time {
	start := DateOf(plan.CycleStartDate)
	total := plan.LengthOfCyclesInDays * plan.NumberOfCycles
	if total <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, total)
	for i := 0; i < total; i++ {
		// AddDate keeps the wall clock at midnight across DST changes.
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// HasCycleEnded reports whether now has reached midnight of endDate.
func HasCycleEnded(endDate time.Time, now time.Time) bool {
	return !now.Before(DateOf(endDate))
}

// CycleDayOffset is the number of whole calendar days from the plan start to today.
// It is negative for days before the start.
func CycleDayOffset(plan *medication.Plan, today time.Time) int {
	return int(civilDay(today.In(plan.CycleStartDate.Location())) - civilDay(plan.CycleStartDate))
}

// civilDay counts days since the epoch for the calendar date of t, ignoring its zone offset.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
