// Package scheduler drives the reminder service on a cron cadence until the
// medication cycle is over.
//
// Exactly one process may run against a given cycle store. Two instances would
// each see an unsent flag and both send the reminder.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"medication_reminder_bot/internal/app" // For ReminderService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ReminderScheduler struct {
	cronEngine      *cron.Cron
	reminderService app.ReminderService
	logger          *logrus.Entry
	cronSpec        string
	now             func() time.Time
}

func NewReminderScheduler(
	reminderService app.ReminderService,
	logger *logrus.Entry,
	location *time.Location,
	cronSpec string, // e.g., "*/5 * * * *" (every 5 minutes)
) *ReminderScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &ReminderScheduler{
		// SkipIfStillRunning keeps a single thread of control when a tick outlives the interval.
		cronEngine:      cron.New(cron.WithLocation(location), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		reminderService: reminderService,
		logger:          logger,
		cronSpec:        cronSpec,
		now:             time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *ReminderScheduler) WithClock(now func() time.Time) *ReminderScheduler {
	s.now = now
	return s
}

// Run performs one check immediately and then one per cron tick. It returns nil
// once the cycle has ended, or ctx's error if ctx is cancelled first.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	ended := make(chan struct{})
	var once sync.Once
	job := func() {
		if s.tick(ctx) {
			once.Do(func() { close(ended) })
		}
	}

	if _, err := s.cronEngine.AddFunc(s.cronSpec, job); err != nil {
		return fmt.Errorf("could not add reminder check cron job: %w", err)
	}

	job()
	select {
	case <-ended:
		return nil
	default:
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Reminder scheduler started")
	defer s.stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ended:
		return nil
	}
}

// tick runs one reminder check. Failures are logged and retried on the next tick.
func (s *ReminderScheduler) tick(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	ended, err := s.reminderService.Tick(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Reminder check failed, retrying on next tick")
		return false
	}
	return ended
}

func (s *ReminderScheduler) stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler stopped")
}
