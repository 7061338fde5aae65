// Package report renders a finished run into CSV summaries: one file of
// completed-job records with run totals, and one file of per-unit daily
// workloads.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/infra/logger"
)

// Writer renders run results into report files.
type Writer struct {
	log logger.Logger
}

// NewWriter creates a Writer.
func NewWriter(log logger.Logger) *Writer {
	if log == nil {
		log = logger.New("report")
	}
	return &Writer{log: log}
}

var jobHeader = []string{
	"record_id", "job_id", "type", "priority", "created",
	"suburb", "district", "unit_id",
	"travel_seconds", "idle_seconds", "completed_at", "compliant",
}

// WriteJobReport writes the completed-record table followed by run summary
// lines to path.
func (w *Writer) WriteJobReport(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create job report: %w", err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write(jobHeader); err != nil {
		return err
	}
	for _, rec := range res.Completed {
		j := rec.Job
		row := []string{
			rec.ID.String(),
			j.ID,
			j.Type,
			strconv.Itoa(j.Priority),
			j.Created.Format(time.RFC3339),
			j.Suburb,
			j.District,
			rec.Unit.ID,
			strconv.Itoa(j.TravelSeconds),
			strconv.FormatInt(j.IdleSeconds, 10),
			rec.CompletedAt.Format(time.RFC3339),
			strconv.FormatBool(j.Compliant),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	summary := [][]string{
		{"summary", "completed", strconv.Itoa(len(res.Completed))},
		{"summary", "incomplete", strconv.Itoa(res.Incomplete)},
		{"summary", "compliance_rate_pct", fmt.Sprintf("%.2f", res.ComplianceRate())},
		{"summary", "avg_travel_minutes", fmt.Sprintf("%.2f", res.AvgTravelSeconds()/60)},
		{"summary", "travel_stddev_minutes", fmt.Sprintf("%.2f", res.TravelStdDevSeconds()/60)},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write job report: %w", err)
	}
	w.log.Infof("job report written to %s (%d records)", path, len(res.Completed))
	return nil
}

var unitHeader = []string{"unit_id", "district", "date", "jobs_completed"}

// WriteUnitReport writes one line per unit per worked day to path.
func (w *Writer) WriteUnitReport(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create unit report: %w", err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write(unitHeader); err != nil {
		return err
	}
	for _, u := range res.Units {
		byDay := map[string]int{}
		for _, j := range u.JobsToday {
			byDay[j.Created.Format("2006-01-02")]++
		}
		days := make([]string, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Strings(days)
		for _, d := range days {
			row := []string{u.ID, u.District, d, strconv.Itoa(byDay[d])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write unit report: %w", err)
	}
	w.log.Infof("unit report written to %s", path)
	return nil
}
