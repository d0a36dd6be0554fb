package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"

	"github.com/mattn/go-sqlite3"
)

// SQLiteCycleRepository stores cycle days in a local SQLite file.
// Dates are kept as YYYY-MM-DD text so they sort and compare as calendar dates.
type SQLiteCycleRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewSQLiteCycleRepository(db *sql.DB, loc *time.Location) *SQLiteCycleRepository {
	return &SQLiteCycleRepository{db: db, loc: loc}
}

var sqliteCycleDaysSchema = `CREATE TABLE cycle_days (
	cycle_date TEXT PRIMARY KEY NOT NULL,
	morning_message_sent BOOLEAN NOT NULL DEFAULT 0,
	evening_message_sent BOOLEAN NOT NULL DEFAULT 0
)`

func (r *SQLiteCycleRepository) Reset(ctx context.Context) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for reset: %w", err)
	}
	defer txn.Rollback()

	if _, err := txn.ExecContext(ctx, `DROP TABLE IF EXISTS cycle_days`); err != nil {
		return fmt.Errorf("error dropping cycle_days: %w", err)
	}
	if _, err := txn.ExecContext(ctx, sqliteCycleDaysSchema); err != nil {
		return fmt.Errorf("error creating cycle_days: %w", err)
	}
	return txn.Commit()
}

func (r *SQLiteCycleRepository) BulkInitialize(ctx context.Context, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk initialize: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO cycle_days (cycle_date, morning_message_sent, evening_message_sent) VALUES (?, 0, 0)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk initialize: %w", err)
	}
	defer stmt.Close()

	for _, d := range dates {
		if _, err := stmt.ExecContext(ctx, cycle.FormatDate(d)); err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return fmt.Errorf("error in bulk initialize (date %s): %w", cycle.FormatDate(d), ErrDuplicateCycleDate)
			}
			return fmt.Errorf("error executing statement for bulk initialize (date %s): %w", cycle.FormatDate(d), err)
		}
	}

	return txn.Commit()
}

func (r *SQLiteCycleRepository) GetRowsForDate(ctx context.Context, date time.Time) ([]*cycle.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cycle_date, morning_message_sent, evening_message_sent FROM cycle_days WHERE cycle_date = ?`,
		cycle.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("error querying cycle days by date: %w", err)
	}
	defer rows.Close()
	return scanCycleDays(rows, r.loc)
}

func (r *SQLiteCycleRepository) MarkSent(ctx context.Context, date time.Time, tod medication.TimeOfDay) error {
	var query string
	switch tod {
	case medication.Morning:
		query = `UPDATE cycle_days SET morning_message_sent = 1 WHERE cycle_date = ?`
	case medication.Evening:
		query = `UPDATE cycle_days SET evening_message_sent = 1 WHERE cycle_date = ?`
	default:
		return fmt.Errorf("unknown time of day: %s", tod)
	}

	res, err := r.db.ExecContext(ctx, query, cycle.FormatDate(date))
	if err != nil {
		return fmt.Errorf("error marking cycle day as sent: %w", err)
	}
	return checkMarked(res, date)
}

func (r *SQLiteCycleRepository) ListDays(ctx context.Context) ([]*cycle.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cycle_date, morning_message_sent, evening_message_sent FROM cycle_days ORDER BY cycle_date`)
	if err != nil {
		return nil, fmt.Errorf("error listing cycle days: %w", err)
	}
	defer rows.Close()
	return scanCycleDays(rows, r.loc)
}
