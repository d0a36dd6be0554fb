package planfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"medication_reminder_bot/internal/domain/medication"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonPlan = `{
  "number_of_cycles": 4,
  "cycle_start_date": "2024-01-01",
  "length_of_cycles_in_days": 21,
  "meds": [
    {"med_name": "Aspirin", "morning": true, "evening": false, "daily": true, "cycle_days": []},
    {"med_name": "Dexamethasone", "morning": true, "evening": true, "daily": false, "cycle_days": [0, 1, 2]}
  ]
}`

const yamlPlan = `number_of_cycles: 4
cycle_start_date: "2024-01-01"
length_of_cycles_in_days: 21
meds:
  - med_name: Aspirin
    morning: true
    daily: true
  - med_name: Dexamethasone
    morning: true
    evening: true
    cycle_days: [0, 1, 2]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func assertPlan(t *testing.T, plan *medication.Plan, loc *time.Location) {
	t.Helper()
	assert.Equal(t, 4, plan.NumberOfCycles)
	assert.Equal(t, 21, plan.LengthOfCyclesInDays)
	assert.True(t, plan.CycleStartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)))
	require.Len(t, plan.Meds, 2)
	assert.Equal(t, "Aspirin", plan.Meds[0].Name)
	assert.True(t, plan.Meds[0].Morning)
	assert.False(t, plan.Meds[0].Evening)
	assert.True(t, plan.Meds[0].Daily)
	assert.Empty(t, plan.Meds[0].CycleDays)
	assert.Equal(t, "Dexamethasone", plan.Meds[1].Name)
	assert.True(t, plan.Meds[1].Evening)
	assert.Equal(t, []int{0, 1, 2}, plan.Meds[1].CycleDays)
}

func TestLoadJSON(t *testing.T) {
	loc := chicago(t)
	plan, err := Load(writeFile(t, "meds.json", jsonPlan), loc)
	require.NoError(t, err)
	assertPlan(t, plan, loc)
}

func TestLoadYAML(t *testing.T) {
	loc := chicago(t)
	plan, err := Load(writeFile(t, "meds.yaml", yamlPlan), loc)
	require.NoError(t, err)
	assertPlan(t, plan, loc)
}

func TestLoadErrors(t *testing.T) {
	loc := chicago(t)
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", "meds.json", `{"number_of_cycles": `},
		{"bad date", "meds.json", `{"number_of_cycles": 1, "cycle_start_date": "January 1st", "length_of_cycles_in_days": 3, "meds": []}`},
		{"zero length", "meds.json", `{"number_of_cycles": 1, "cycle_start_date": "2024-01-01", "length_of_cycles_in_days": 0, "meds": []}`},
		{"cycle count overflows", "meds.json", `{"number_of_cycles": 4294967296, "cycle_start_date": "2024-01-01", "length_of_cycles_in_days": 4294967296, "meds": []}`},
		{"cycle too long", "meds.yaml", "number_of_cycles: 1\ncycle_start_date: \"2024-01-01\"\nlength_of_cycles_in_days: 256\nmeds: []\n"},
		{"empty name", "meds.yml", "number_of_cycles: 1\ncycle_start_date: \"2024-01-01\"\nlength_of_cycles_in_days: 3\nmeds:\n  - med_name: \"\"\n    daily: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content), loc)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), loc)
	assert.Error(t, err)
}
