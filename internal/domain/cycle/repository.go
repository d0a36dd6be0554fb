// internal/domain/cycle/repository.go
package cycle

import (
	"context"
	"time"

	"medication_reminder_bot/internal/domain/medication"
)

// Repository owns the cycle_days table. No other component writes to it.
type Repository interface {
	// Reset drops and recreates the schema, leaving an empty table.
	Reset(ctx context.Context) error
	// BulkInitialize inserts one row per date with both flags false.
	// It must run once after Reset; a repeated date violates the cycle_date key.
	BulkInitialize(ctx context.Context, dates []time.Time) error
	GetRowsForDate(ctx context.Context, date time.Time) ([]*Day, error)
	// MarkSent sets the flag for tod on date. Setting an already set flag is harmless.
	MarkSent(ctx context.Context, date time.Time, tod medication.TimeOfDay) error
	ListDays(ctx context.Context) ([]*Day, error) // For status reporting
}
