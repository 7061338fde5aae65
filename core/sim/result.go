package sim

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fieldops/dispatchsim/core/model"
)

// Result is the outcome of a finished simulation run.
type Result struct {
	Completed  []model.CompletedJobRecord
	Incomplete int
	Compliant  int

	// Units is the full roster used by the run, for per-unit reporting.
	Units []*model.Unit

	Start time.Time
	End   time.Time

	travelSeconds []float64
}

// Empty reports whether the run completed no jobs at all.
func (r *Result) Empty() bool { return len(r.Completed) == 0 }

// ComplianceRate returns compliant jobs over all jobs the run saw, completed
// or not, as a percentage.
func (r *Result) ComplianceRate() float64 {
	total := len(r.Completed) + r.Incomplete
	if total == 0 {
		return 0
	}
	return float64(r.Compliant) / float64(total) * 100
}

// AvgTravelSeconds returns the mean route travel time over completed jobs.
func (r *Result) AvgTravelSeconds() float64 {
	if len(r.travelSeconds) == 0 {
		return 0
	}
	return stat.Mean(r.travelSeconds, nil)
}

// TravelStdDevSeconds returns the travel time standard deviation.
func (r *Result) TravelStdDevSeconds() float64 {
	if len(r.travelSeconds) < 2 {
		return 0
	}
	return stat.StdDev(r.travelSeconds, nil)
}
