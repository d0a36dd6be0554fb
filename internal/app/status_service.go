package app

import (
	"context"
	"fmt"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"
)

// CycleStatus is a read-only snapshot of the cycle for the /status command.
type CycleStatus struct {
	StartDate      time.Time
	EndDate        time.Time
	Today          time.Time
	CycleDay       int // Zero-based offset of Today, only meaningful when InCycle
	InCycle        bool
	Ended          bool
	TodayRow       *cycle.Day // nil outside the cycle
	MorningMeds    []string
	EveningMeds    []string
	DeliveredCount int
	TotalReminders int
}

type StatusService struct {
	plan      *medication.Plan
	cycleRepo cycle.Repository
	location  *time.Location
}

func NewStatusService(plan *medication.Plan, cr cycle.Repository, location *time.Location) *StatusService {
	return &StatusService{plan: plan, cycleRepo: cr, location: location}
}

// Status builds the snapshot for the instant now.
func (s *StatusService) Status(ctx context.Context, now time.Time) (*CycleStatus, error) {
	now = now.In(s.location)
	st := &CycleStatus{
		StartDate: cycle.DateOf(s.plan.CycleStartDate),
		EndDate:   cycle.EndDate(s.plan),
		Today:     cycle.DateOf(now),
	}
	st.Ended = cycle.HasCycleEnded(st.EndDate, now)
	st.CycleDay = cycle.CycleDayOffset(s.plan, st.Today)
	st.InCycle = !st.Ended && st.CycleDay >= 0

	days, err := s.cycleRepo.ListDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle days: %w", err)
	}
	st.TotalReminders = 2 * len(days)
	for _, d := range days {
		if d.MorningMessageSent {
			st.DeliveredCount++
		}
		if d.EveningMessageSent {
			st.DeliveredCount++
		}
		if d.CycleDate.Equal(st.Today) {
			st.TodayRow = d
		}
	}

	if st.InCycle {
		st.MorningMeds = s.plan.MedicationsFor(medication.Morning, st.CycleDay)
		st.EveningMeds = s.plan.MedicationsFor(medication.Evening, st.CycleDay)
	}
	return st, nil
}
