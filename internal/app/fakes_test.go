package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"
	"medication_reminder_bot/internal/domain/notifier"

	"github.com/sirupsen/logrus"
)

var errStorageDown = errors.New("storage is down")

// memoryCycleRepository keeps cycle days keyed by ISO date.
type memoryCycleRepository struct {
	days        map[string]*cycle.Day
	getErr      error
	markErr     error
	markedCalls int
}

func newMemoryCycleRepository() *memoryCycleRepository {
	return &memoryCycleRepository{days: map[string]*cycle.Day{}}
}

func (r *memoryCycleRepository) Reset(ctx context.Context) error {
	r.days = map[string]*cycle.Day{}
	return nil
}

func (r *memoryCycleRepository) BulkInitialize(ctx context.Context, dates []time.Time) error {
	for _, d := range dates {
		key := cycle.FormatDate(d)
		if _, ok := r.days[key]; ok {
			return errors.New("duplicate cycle date " + key)
		}
		r.days[key] = &cycle.Day{CycleDate: d}
	}
	return nil
}

func (r *memoryCycleRepository) GetRowsForDate(ctx context.Context, date time.Time) ([]*cycle.Day, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	d, ok := r.days[cycle.FormatDate(date)]
	if !ok {
		return nil, nil
	}
	row := *d
	return []*cycle.Day{&row}, nil
}

func (r *memoryCycleRepository) MarkSent(ctx context.Context, date time.Time, tod medication.TimeOfDay) error {
	r.markedCalls++
	if r.markErr != nil {
		return r.markErr
	}
	d, ok := r.days[cycle.FormatDate(date)]
	if !ok {
		return errors.New("cycle day not found")
	}
	if tod == medication.Morning {
		d.MorningMessageSent = true
	} else {
		d.EveningMessageSent = true
	}
	return nil
}

func (r *memoryCycleRepository) ListDays(ctx context.Context) ([]*cycle.Day, error) {
	out := make([]*cycle.Day, 0, len(r.days))
	for _, d := range r.days {
		row := *d
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CycleDate.Before(out[j].CycleDate) })
	return out, nil
}

// recordingClient records every message and answers with the queued outcomes,
// falling back to delivered.
type recordingClient struct {
	sent     []string
	outcomes []notifier.Delivery
	errs     []error
}

func (c *recordingClient) Send(ctx context.Context, text string) (notifier.Delivery, error) {
	c.sent = append(c.sent, text)
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		if err != nil {
			return notifier.Delivery{Status: notifier.DeliveryUnknown}, err
		}
	}
	if len(c.outcomes) > 0 {
		out := c.outcomes[0]
		c.outcomes = c.outcomes[1:]
		return out, nil
	}
	return notifier.Delivery{Status: notifier.DeliveryDelivered, MessageID: "SM1"}, nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
