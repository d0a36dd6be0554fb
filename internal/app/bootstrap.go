package app

import (
	"context"
	"fmt"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"

	"github.com/sirupsen/logrus"
)

// InitializeCycle recreates the cycle table and fills it with every date of the plan.
// It must run exactly once per process, before the reminder loop starts.
func InitializeCycle(ctx context.Context, cr cycle.Repository, plan *medication.Plan, logger *logrus.Entry) (int, error) {
	if err := cr.Reset(ctx); err != nil {
		return 0, fmt.Errorf("failed to reset cycle store: %w", err)
	}

	dates := cycle.DateRange(plan)
	if err := cr.BulkInitialize(ctx, dates); err != nil {
		return 0, fmt.Errorf("failed to initialize cycle days: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"start_date": cycle.FormatDate(plan.CycleStartDate),
		"end_date":   cycle.FormatDate(cycle.EndDate(plan)),
		"days":       len(dates),
	}).Info("Cycle days initialized")
	return len(dates), nil
}
