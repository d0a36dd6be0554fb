// internal/infra/database/postgres_cycle_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type PostgresCycleRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewPostgresCycleRepository(db *sql.DB, loc *time.Location) *PostgresCycleRepository {
	return &PostgresCycleRepository{db: db, loc: loc}
}

func (r *PostgresCycleRepository) Reset(ctx context.Context) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for reset: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, `DROP TABLE IF EXISTS cycle_days`); err != nil {
		return fmt.Errorf("error dropping cycle_days: %w", err)
	}
	_, err = txn.ExecContext(ctx, `CREATE TABLE cycle_days (
               cycle_date           DATE PRIMARY KEY,
               morning_message_sent BOOLEAN NOT NULL DEFAULT FALSE,
               evening_message_sent BOOLEAN NOT NULL DEFAULT FALSE
           )`)
	if err != nil {
		return fmt.Errorf("error creating cycle_days: %w", err)
	}
	return txn.Commit()
}

func (r *PostgresCycleRepository) BulkInitialize(ctx context.Context, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk initialize: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO cycle_days (cycle_date, morning_message_sent, evening_message_sent)
                                         VALUES ($1, FALSE, FALSE)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk initialize: %w", err)
	}
	defer stmt.Close()

	for _, d := range dates {
		if _, err := stmt.ExecContext(ctx, cycle.FormatDate(d)); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
				return fmt.Errorf("error in bulk initialize (date %s): %w", cycle.FormatDate(d), ErrDuplicateCycleDate)
			}
			return fmt.Errorf("error executing statement for bulk initialize (date %s): %w", cycle.FormatDate(d), err)
		}
	}

	return txn.Commit()
}

func (r *PostgresCycleRepository) GetRowsForDate(ctx context.Context, date time.Time) ([]*cycle.Day, error) {
	query := `SELECT to_char(cycle_date, 'YYYY-MM-DD'), morning_message_sent, evening_message_sent
               FROM cycle_days WHERE cycle_date = $1`
	rows, err := r.db.QueryContext(ctx, query, cycle.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("error querying cycle days by date: %w", err)
	}
	defer rows.Close()
	return scanCycleDays(rows, r.loc)
}

func (r *PostgresCycleRepository) MarkSent(ctx context.Context, date time.Time, tod medication.TimeOfDay) error {
	var query string
	switch tod {
	case medication.Morning:
		query = `UPDATE cycle_days SET morning_message_sent = TRUE WHERE cycle_date = $1`
	case medication.Evening:
		query = `UPDATE cycle_days SET evening_message_sent = TRUE WHERE cycle_date = $1`
	default:
		return fmt.Errorf("unknown time of day: %s", tod)
	}

	res, err := r.db.ExecContext(ctx, query, cycle.FormatDate(date))
	if err != nil {
		return fmt.Errorf("error marking cycle day as sent: %w", err)
	}
	return checkMarked(res, date)
}

func (r *PostgresCycleRepository) ListDays(ctx context.Context) ([]*cycle.Day, error) {
	query := `SELECT to_char(cycle_date, 'YYYY-MM-DD'), morning_message_sent, evening_message_sent
               FROM cycle_days ORDER BY cycle_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing cycle days: %w", err)
	}
	defer rows.Close()
	return scanCycleDays(rows, r.loc)
}
