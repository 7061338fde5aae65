// Package metrics defines the observability records emitted by a simulation
// run and the sink interfaces that persist them.
package metrics

import "time"

// AssignmentRecord captures a job-to-unit match.
type AssignmentRecord struct {
	JobID         string
	UnitID        string
	District      string
	InIsochrone   bool
	Compliant     bool
	TravelSeconds int
	IdleSeconds   int64
	Time          time.Time
}

// CompletionRecord captures a finished job.
type CompletionRecord struct {
	RecordID      string
	JobID         string
	UnitID        string
	TravelSeconds int
	Time          time.Time
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	Completed        int
	Incomplete       int
	Compliant        int
	ComplianceRate   float64
	AvgTravelSeconds float64
	Start            time.Time
	End              time.Time
}

// MetricsSink records assignment events for observability purposes.
type MetricsSink interface {
	RecordAssignment(rec AssignmentRecord) error
}

// CompletionRecorder is implemented by sinks able to record completions.
type CompletionRecorder interface {
	RecordCompletion(rec CompletionRecord) error
}

// SummaryRecorder is implemented by sinks able to record run summaries.
type SummaryRecorder interface {
	RecordRunSummary(s RunSummary) error
}

// RosterRecorder records the size of the on-duty roster.
type RosterRecorder interface {
	RecordRosterSize(size int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentRecord) error { return nil }
func (NopSink) RecordCompletion(CompletionRecord) error { return nil }
func (NopSink) RecordRunSummary(RunSummary) error       { return nil }
func (NopSink) RecordRosterSize(int) error              { return nil }
