// Package planfile reads the medication plan document from disk.
package planfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/medication"

	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk layout, shared by JSON and YAML.
type document struct {
	NumberOfCycles       int                  `json:"number_of_cycles" yaml:"number_of_cycles"`
	CycleStartDate       string               `json:"cycle_start_date" yaml:"cycle_start_date"`
	LengthOfCyclesInDays int                  `json:"length_of_cycles_in_days" yaml:"length_of_cycles_in_days"`
	Meds                 []medicationDocument `json:"meds" yaml:"meds"`
}

type medicationDocument struct {
	MedName   string `json:"med_name" yaml:"med_name"`
	Morning   bool   `json:"morning" yaml:"morning"`
	Evening   bool   `json:"evening" yaml:"evening"`
	Daily     bool   `json:"daily" yaml:"daily"`
	CycleDays []int  `json:"cycle_days" yaml:"cycle_days"`
}

// Load reads and validates the plan at path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. The start date is placed in loc.
func Load(path string, loc *time.Location) (*medication.Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read plan file: %w", err)
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &doc)
	default:
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse plan file %s: %w", path, err)
	}

	return doc.toPlan(loc)
}

func (d document) toPlan(loc *time.Location) (*medication.Plan, error) {
	start, err := cycle.ParseDate(d.CycleStartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("cycle_start_date: %w", err)
	}

	plan := &medication.Plan{
		NumberOfCycles:       d.NumberOfCycles,
		CycleStartDate:       start,
		LengthOfCyclesInDays: d.LengthOfCyclesInDays,
		Meds:                 make([]medication.Medication, 0, len(d.Meds)),
	}
	for _, m := range d.Meds {
		plan.Meds = append(plan.Meds, medication.Medication{
			Name:      m.MedName,
			Morning:   m.Morning,
			Evening:   m.Evening,
			Daily:     m.Daily,
			CycleDays: m.CycleDays,
		})
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
