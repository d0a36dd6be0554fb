// internal/domain/medication/plan.go
package medication

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// TimeOfDay selects which of the two daily reminders is meant.
type TimeOfDay string

const (
	Morning TimeOfDay = "MORNING"
	Evening TimeOfDay = "EVENING"
)

// TimesOfDay lists both reminders in dispatch order.
var TimesOfDay = []TimeOfDay{Morning, Evening}

var ErrInvalidPlan = errors.New("invalid medication plan")

// Upper bounds for the cycle shape. Together they keep the cycle at or below 65025 days.
const (
	MaxNumberOfCycles       = 255
	MaxLengthOfCyclesInDays = 255
)

// Medication is one entry of the plan with its scheduling rules.
type Medication struct {
	Name      string
	Morning   bool
	Evening   bool
	Daily     bool
	CycleDays []int // Cycle-relative offsets, used only when Daily is false
}

// Plan is the medication plan loaded once at startup.
// CycleStartDate is midnight of the first cycle day in the configured timezone.
type Plan struct {
	NumberOfCycles       int
	CycleStartDate       time.Time
	LengthOfCyclesInDays int
	Meds                 []Medication
}

// Validate reports structural problems that make the plan unusable.
func (p *Plan) Validate() error {
	if p.NumberOfCycles <= 0 || p.NumberOfCycles > MaxNumberOfCycles {
		return fmt.Errorf("%w: number_of_cycles must be between 1 and %d, got %d", ErrInvalidPlan, MaxNumberOfCycles, p.NumberOfCycles)
	}
	if p.LengthOfCyclesInDays <= 0 || p.LengthOfCyclesInDays > MaxLengthOfCyclesInDays {
		return fmt.Errorf("%w: length_of_cycles_in_days must be between 1 and %d, got %d", ErrInvalidPlan, MaxLengthOfCyclesInDays, p.LengthOfCyclesInDays)
	}
	if p.CycleStartDate.IsZero() {
		return fmt.Errorf("%w: cycle_start_date is not set", ErrInvalidPlan)
	}
	for i, m := range p.Meds {
		if m.Name == "" {
			return fmt.Errorf("%w: medication #%d has an empty name", ErrInvalidPlan, i+1)
		}
		for _, d := range m.CycleDays {
			if d < 0 {
				return fmt.Errorf("%w: medication %q has negative cycle day %d", ErrInvalidPlan, m.Name, d)
			}
		}
	}
	return nil
}

// Warnings returns non-fatal configuration smells, e.g. a medication that can never fire.
func (p *Plan) Warnings() []string {
	var warnings []string
	for _, m := range p.Meds {
		if !m.Daily && len(m.CycleDays) == 0 {
			warnings = append(warnings, fmt.Sprintf("medication %q is not daily and has no cycle_days; it will never be reminded", m.Name))
		}
		if !m.Morning && !m.Evening {
			warnings = append(warnings, fmt.Sprintf("medication %q is neither a morning nor an evening medication", m.Name))
		}
	}
	return warnings
}

// DueAt reports whether the medication is taken at tod on the given cycle day offset.
func (m Medication) DueAt(tod TimeOfDay, offset int) bool {
	var atTime bool
	switch tod {
	case Morning:
		atTime = m.Morning
	case Evening:
		atTime = m.Evening
	}
	return atTime && (m.Daily || slices.Contains(m.CycleDays, offset))
}

// MedicationsFor gathers the names due at tod on the given offset, in plan order.
func (p *Plan) MedicationsFor(tod TimeOfDay, offset int) []string {
	names := make([]string, 0, len(p.Meds))
	for _, m := range p.Meds {
		if m.DueAt(tod, offset) {
			names = append(names, m.Name)
		}
	}
	return names
}
