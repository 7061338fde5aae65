package metrics

import coremetrics "github.com/fieldops/dispatchsim/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignment(rec coremetrics.AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordCompletion forwards completion records.
func (m *MultiSink) RecordCompletion(rec coremetrics.CompletionRecord) error {
	for _, s := range m.Sinks {
		if cr, ok := s.(coremetrics.CompletionRecorder); ok {
			if err := cr.RecordCompletion(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRunSummary forwards run summaries.
func (m *MultiSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	for _, s := range m.Sinks {
		if sr, ok := s.(coremetrics.SummaryRecorder); ok {
			if err := sr.RecordRunSummary(sum); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRosterSize forwards roster sizes when supported by the sink.
func (m *MultiSink) RecordRosterSize(size int) error {
	for _, s := range m.Sinks {
		if rr, ok := s.(coremetrics.RosterRecorder); ok {
			if err := rr.RecordRosterSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
