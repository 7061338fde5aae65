// Package ingest loads jobs and duty rosters from CSV extracts. Malformed
// records are logged and skipped so one bad row does not sink a whole run; a
// missing or unreadable file is fatal.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/infra/logger"
)

const jobColumns = 17

// Job CSV column layout.
const (
	colJobID = iota
	colJobType
	colJobDesc
	colIssueCode
	colIssueDesc
	colActivityType
	colActivityDesc
	colDate
	colTime
	colPriority
	colSuburb
	colStreet
	colHouseNum1
	colHouseNum2
	colPostcode
	colDistrict
	colDuration
)

// JobReader parses job extracts.
type JobReader struct {
	log logger.Logger
}

// NewJobReader creates a JobReader.
func NewJobReader(log logger.Logger) *JobReader {
	if log == nil {
		log = logger.New("ingest")
	}
	return &JobReader{log: log}
}

// ReadFile loads all jobs from the CSV file at path, sorted as stored.
func (r *JobReader) ReadFile(path string) ([]*model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jobs file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(f)
}

// Read parses jobs from src. Records that cannot be parsed are skipped with a
// warning; the ingestion sequence number reflects accepted records only.
func (r *JobReader) Read(src io.Reader) ([]*model.Job, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var jobs []*model.Job
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read jobs csv: %w", err)
		}
		line++
		job, err := parseJob(rec)
		if err != nil {
			if line == 1 && looksLikeHeader(rec) {
				continue
			}
			r.log.Warnf("skipping job record %d: %v", line, err)
			continue
		}
		job.Seq = len(jobs)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func parseJob(rec []string) (*model.Job, error) {
	if len(rec) != jobColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", jobColumns, len(rec))
	}
	created, err := parseTimestamp(rec[colDate], rec[colTime])
	if err != nil {
		return nil, err
	}
	priority, err := strconv.Atoi(strings.TrimSpace(rec[colPriority]))
	if err != nil {
		return nil, fmt.Errorf("priority %q: %w", rec[colPriority], err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(rec[colDuration]))
	if err != nil {
		return nil, fmt.Errorf("duration %q: %w", rec[colDuration], err)
	}
	job := &model.Job{
		ID:                  strings.TrimSpace(rec[colJobID]),
		Type:                strings.TrimSpace(rec[colJobType]),
		Description:         strings.TrimSpace(rec[colJobDesc]),
		IssueCode:           strings.TrimSpace(rec[colIssueCode]),
		IssueDescription:    strings.TrimSpace(rec[colIssueDesc]),
		ActivityType:        strings.TrimSpace(rec[colActivityType]),
		ActivityDescription: strings.TrimSpace(rec[colActivityDesc]),
		Created:             created,
		Priority:            priority,
		DurationMinutes:     duration,
		Suburb:              strings.TrimSpace(rec[colSuburb]),
		Street:              strings.TrimSpace(rec[colStreet]),
		HouseNum1:           strings.TrimSpace(rec[colHouseNum1]),
		HouseNum2:           strings.TrimSpace(rec[colHouseNum2]),
		Postcode:            strings.TrimSpace(rec[colPostcode]),
		District:            strings.TrimSpace(rec[colDistrict]),
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// parseTimestamp combines a YYYYMMDD date and an HH:MM:SS clock time.
func parseTimestamp(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation("20060102", strings.TrimSpace(date), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", date, err)
	}
	t, err := time.Parse("15:04:05", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", clock, err)
	}
	return d.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second), nil
}

// looksLikeHeader reports whether a first record is a column-name row rather
// than data: no numeric priority and no parseable date.
func looksLikeHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	for _, field := range rec {
		if _, err := strconv.Atoi(strings.TrimSpace(field)); err == nil {
			return false
		}
	}
	return true
}
