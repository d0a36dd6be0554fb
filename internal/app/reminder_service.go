// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"
	"medication_reminder_bot/internal/domain/notifier"

	"github.com/sirupsen/logrus"
)

// ReminderService runs the reminder workflow one poll at a time.
type ReminderService interface {
	// Tick evaluates today's reminders against now and dispatches the due ones.
	// It reports ended once the whole medication cycle is over.
	Tick(ctx context.Context, now time.Time) (ended bool, err error)
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	plan      *medication.Plan
	cycleRepo cycle.Repository
	client    notifier.Client
	logger    *logrus.Entry
	location  *time.Location
	skipEmpty bool
}

func NewReminderServiceImpl(
	plan *medication.Plan,
	cr cycle.Repository,
	client notifier.Client,
	logger *logrus.Entry,
	location *time.Location,
	skipEmpty bool, // Do not send reminders that list no medication
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		plan:      plan,
		cycleRepo: cr,
		client:    client,
		logger:    logger,
		location:  location,
		skipEmpty: skipEmpty,
	}
}

func (s *ReminderServiceImpl) Tick(ctx context.Context, now time.Time) (bool, error) {
	now = now.In(s.location)

	// 1. Stop once the cycle is over
	endDate := cycle.EndDate(s.plan)
	if cycle.HasCycleEnded(endDate, now) {
		s.logger.WithField("end_date", cycle.FormatDate(endDate)).Info("Medication cycle has ended")
		return true, nil
	}

	// 2. Fetch today's rows
	today := cycle.DateOf(now)
	days, err := s.cycleRepo.GetRowsForDate(ctx, today)
	if err != nil {
		return false, fmt.Errorf("failed to get cycle day %s: %w", cycle.FormatDate(today), err)
	}
	if len(days) == 0 {
		s.logger.WithField("date", cycle.FormatDate(today)).Debug("Today is not a cycle day")
		return false, nil
	}

	// 3. Evaluate both windows and dispatch what is due
	handled := make(map[medication.TimeOfDay]bool, len(medication.TimesOfDay))
	for _, day := range days {
		for _, tod := range medication.TimesOfDay {
			if handled[tod] {
				continue // A duplicate row must not trigger a second send
			}
			state := cycle.Evaluate(day, tod, now)
			s.logger.WithFields(logrus.Fields{
				"date":        cycle.FormatDate(day.CycleDate),
				"time_of_day": tod,
				"state":       state,
			}).Debug("Reminder evaluated")
			if state != cycle.StateDue {
				continue
			}
			handled[tod] = true
			if err := s.dispatch(ctx, day, tod); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// dispatch sends one due reminder and records it only after a confirmed delivery.
// Transport failures are logged and left for the next poll inside the window.
func (s *ReminderServiceImpl) dispatch(ctx context.Context, day *cycle.Day, tod medication.TimeOfDay) error {
	offset := cycle.CycleDayOffset(s.plan, day.CycleDate)
	meds := s.plan.MedicationsFor(tod, offset)
	log := s.logger.WithFields(logrus.Fields{
		"date":        cycle.FormatDate(day.CycleDate),
		"time_of_day": tod,
		"cycle_day":   offset,
		"medications": meds,
	})

	if len(meds) == 0 && s.skipEmpty {
		log.Info("No medications due, reminder skipped")
		return nil
	}

	text := RenderMessage(tod, meds)
	delivery, err := s.client.Send(ctx, text)
	if err != nil {
		log.WithError(err).Error("Failed to send reminder, delivery status unknown")
		return nil
	}

	switch delivery.Status {
	case notifier.DeliveryDelivered:
		log.WithField("message_id", delivery.MessageID).Info("Reminder delivered")
	case notifier.DeliveryRejected:
		log.WithField("reason", delivery.Reason).Warn("Reminder rejected by transport")
		return nil
	default:
		log.WithField("reason", delivery.Reason).Warn("Reminder delivery status unknown")
		return nil
	}

	if err := s.cycleRepo.MarkSent(ctx, day.CycleDate, tod); err != nil {
		return fmt.Errorf("failed to mark %s reminder for %s as sent: %w", strings.ToLower(string(tod)), cycle.FormatDate(day.CycleDate), err)
	}
	return nil
}

// RenderMessage builds the plain-text reminder body.
func RenderMessage(tod medication.TimeOfDay, meds []string) string {
	greeting, period := "Good morning!", "morning"
	if tod == medication.Evening {
		greeting, period = "Good evening!", "evening"
	}
	if len(meds) == 0 {
		return fmt.Sprintf("%s There are no medications scheduled for this %s.", greeting, period)
	}
	return fmt.Sprintf("%s Please take your %s.", greeting, strings.Join(meds, ", "))
}
