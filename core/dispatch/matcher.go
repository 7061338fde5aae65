package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
	"github.com/fieldops/dispatchsim/core/logger"
	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/core/routing"
)

// DefaultDistanceCap bounds the straight-line distance of any candidate unit.
// It is a sanity bound in coordinate units, not a physical distance.
const DefaultDistanceCap = 200.0

// Matcher selects the best available unit for a job location. Selection is a
// two-phase greedy pass: units inside the travel-time isochrone first, then a
// straight-line distance fallback over the whole pool.
type Matcher struct {
	planner routing.Planner
	log     logger.Logger
	cap     float64
}

// NewMatcher creates a Matcher using the given routing planner. A
// non-positive distanceCap falls back to DefaultDistanceCap.
func NewMatcher(planner routing.Planner, distanceCap float64, log logger.Logger) *Matcher {
	if distanceCap <= 0 {
		distanceCap = DefaultDistanceCap
	}
	return &Matcher{planner: planner, log: log, cap: distanceCap}
}

// FindBestUnit returns the nearest available unit inside the isochrone for
// jobLoc, or failing that the nearest unit overall, subject to the distance
// cap. The boolean reports whether the chosen unit was inside the isochrone.
// A nil unit with nil error means no unit qualified. Planner failures are
// returned to the caller and abort the run.
func (m *Matcher) FindBestUnit(ctx context.Context, jobLoc geo.Coordinate, budgetSeconds int, departure time.Time, available []*model.Unit) (*model.Unit, bool, error) {
	if len(available) == 0 {
		return nil, false, nil
	}

	iso, err := m.planner.Isochrone(ctx, jobLoc, budgetSeconds, departure)
	if err != nil {
		return nil, false, fmt.Errorf("isochrone for %v: %w", jobLoc, err)
	}

	var nearby []*model.Unit
	for _, u := range available {
		if geo.PointInPolygon(iso, u.Location) {
			nearby = append(nearby, u)
		}
	}

	if len(nearby) > 0 {
		if u := m.nearest(jobLoc, nearby); u != nil {
			return u, true, nil
		}
	}

	m.log.Debugf("no unit inside %ds isochrone, falling back to straight-line distance", budgetSeconds)
	return m.nearest(jobLoc, available), false, nil
}

// nearest returns the unit minimizing planar distance to loc, ignoring any
// unit at or beyond the distance cap.
func (m *Matcher) nearest(loc geo.Coordinate, units []*model.Unit) *model.Unit {
	var best *model.Unit
	minDistance := m.cap
	for _, u := range units {
		if d := geo.Distance(loc, u.Location); d < minDistance {
			minDistance = d
			best = u
		}
	}
	return best
}
