package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/fieldops/dispatchsim/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	completions prometheus.Counter
	travel      prometheus.Histogram
	roster      prometheus.Gauge
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The scrape server is started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of job-to-unit assignments",
	}, []string{"in_isochrone", "compliant"})
	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_completions_total",
		Help: "Total number of completed jobs",
	})
	travel := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_travel_seconds",
		Help:    "Route travel time per assignment",
		Buckets: prometheus.ExponentialBuckets(60, 2, 8),
	})
	roster := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_roster_units",
		Help: "Number of units on duty after the last roster refresh",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(completions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			completions = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(travel); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			travel = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roster); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roster = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{assignments: assignments, completions: completions, travel: travel, roster: roster}, nil
}

// RecordAssignment increments the assignment counter and travel histogram.
func (s *PromSink) RecordAssignment(rec coremetrics.AssignmentRecord) error {
	s.assignments.WithLabelValues(strconv.FormatBool(rec.InIsochrone), strconv.FormatBool(rec.Compliant)).Inc()
	s.travel.Observe(float64(rec.TravelSeconds))
	return nil
}

// RecordCompletion increments the completion counter.
func (s *PromSink) RecordCompletion(coremetrics.CompletionRecord) error {
	s.completions.Inc()
	return nil
}

// RecordRosterSize sets the roster gauge.
func (s *PromSink) RecordRosterSize(size int) error {
	s.roster.Set(float64(size))
	return nil
}
