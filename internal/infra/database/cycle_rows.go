package database

import (
	"database/sql"
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
)

// Custom errors specific to the cycle repositories
var ErrCycleDayNotFound = fmt.Errorf("cycle day not found")
var ErrDuplicateCycleDate = fmt.Errorf("duplicate cycle day (cycle_date)")

// Helper to scan multiple rows of (cycle_date as YYYY-MM-DD, morning, evening)
func scanCycleDays(rows *sql.Rows, loc *time.Location) ([]*cycle.Day, error) {
	days := make([]*cycle.Day, 0)
	for rows.Next() {
		var (
			dateStr string
			d       cycle.Day
		)
		if err := rows.Scan(&dateStr, &d.MorningMessageSent, &d.EveningMessageSent); err != nil {
			return nil, fmt.Errorf("error scanning cycle day row: %w", err)
		}
		date, err := cycle.ParseDate(dateStr, loc)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored cycle date: %w", err)
		}
		d.CycleDate = date
		days = append(days, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle day rows: %w", err)
	}
	return days, nil
}

// checkMarked maps an UPDATE that touched no row to ErrCycleDayNotFound.
func checkMarked(res sql.Result, date time.Time) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCycleDayNotFound, cycle.FormatDate(date))
	}
	return nil
}
