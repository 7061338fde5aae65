package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/infra/logger"
)

func sampleResult(t *testing.T) *sim.Result {
	t.Helper()
	day := time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC)
	unit := &model.Unit{ID: "U1", District: "WEST"}

	j1 := &model.Job{
		ID: "J1", Type: "BRKN", Priority: 2, Created: day,
		Suburb: "PARRAMATTA", District: "WEST",
		TravelSeconds: 300, Compliant: true, DurationMinutes: 30,
	}
	j2 := &model.Job{
		ID: "J2", Type: "BRKN", Priority: 3, Created: day.Add(time.Hour),
		Suburb: "PARRAMATTA", District: "WEST",
		TravelSeconds: 600, IdleSeconds: 1500, DurationMinutes: 30,
	}
	unit.JobsToday = []*model.Job{j1, j2}

	return &sim.Result{
		Completed: []model.CompletedJobRecord{
			model.NewCompletedJobRecord(j1, unit, day.Add(35*time.Minute)),
			model.NewCompletedJobRecord(j2, unit, day.Add(2*time.Hour)),
		},
		Incomplete: 1,
		Compliant:  1,
		Units:      []*model.Unit{unit},
		Start:      day,
		End:        day.Add(3 * time.Hour),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_WriteJobReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_report.csv")
	w := NewWriter(logger.NopLogger{})
	require.NoError(t, w.WriteJobReport(path, sampleResult(t)))

	rows := readCSV(t, path)
	// Header + 2 records + 5 summary lines.
	require.Len(t, rows, 8)
	assert.Equal(t, "job_id", rows[0][1])
	assert.Equal(t, "J1", rows[1][1])
	assert.Equal(t, "true", rows[1][11])
	assert.Equal(t, "J2", rows[2][1])
	assert.Equal(t, "false", rows[2][11])

	assert.Equal(t, []string{"summary", "completed", "2"}, rows[3])
	assert.Equal(t, []string{"summary", "incomplete", "1"}, rows[4])
	// 1 compliant of 3 seen jobs.
	assert.Equal(t, []string{"summary", "compliance_rate_pct", "33.33"}, rows[5])
}

func TestWriter_WriteUnitReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units_report.csv")
	w := NewWriter(logger.NopLogger{})
	require.NoError(t, w.WriteUnitReport(path, sampleResult(t)))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, unitHeader, rows[0])
	assert.Equal(t, []string{"U1", "WEST", "2023-05-01", "2"}, rows[1])
}

func TestWriter_CreateFailure(t *testing.T) {
	w := NewWriter(logger.NopLogger{})
	err := w.WriteJobReport("/nonexistent-dir/report.csv", sampleResult(t))
	assert.Error(t, err)
}
