// Package sim drives the second-by-second dispatch simulation: admitting jobs
// from the backlog, matching them to units, reaping completions and releasing
// units, until the workload drains or the window ends.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/dispatchsim/core/dispatch"
	"github.com/fieldops/dispatchsim/core/logger"
	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/core/roster"
	"github.com/fieldops/dispatchsim/core/routing"
	"github.com/fieldops/dispatchsim/internal/eventbus"
)

// Simulator owns all run state explicitly; two simulators in one process do
// not share anything.
type Simulator struct {
	cfg     Config
	planner routing.Planner
	matcher *dispatch.Matcher
	roster  roster.Roster
	bus     eventbus.EventBus
	log     logger.Logger

	queue     *dispatch.JobQueue
	admission *dispatch.Admission
	pools     *dispatch.Pools

	clock      time.Time
	end        time.Time
	shiftStart time.Duration
	nextDay    time.Time

	completed []model.CompletedJobRecord
	compliant int
	travel    []float64
	units     []*model.Unit
}

// New creates a Simulator over the given job backlog and roster. The
// simulation window runs from the shift start on the earliest job's day until
// one day after the latest job's creation; quiescence pulls the end forward.
func New(cfg Config, jobs []*model.Job, ros roster.Roster, planner routing.Planner, bus eventbus.EventBus, log logger.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs to simulate")
	}
	shift, err := cfg.shiftStart()
	if err != nil {
		return nil, err
	}

	first, last := jobs[0].Created, jobs[0].Created
	for _, j := range jobs[1:] {
		if j.Created.Before(first) {
			first = j.Created
		}
		if j.Created.After(last) {
			last = j.Created
		}
	}
	start := midnight(first).Add(shift)
	end := last.AddDate(0, 0, 1)

	queue := dispatch.NewJobQueue()
	s := &Simulator{
		cfg:        cfg,
		planner:    planner,
		matcher:    dispatch.NewMatcher(planner, cfg.DistanceCap, log),
		roster:     ros,
		bus:        bus,
		log:        log,
		queue:      queue,
		admission:  dispatch.NewAdmission(jobs, queue, log),
		pools:      dispatch.NewPools(),
		clock:      start,
		end:        end,
		shiftStart: shift,
	}
	s.units = ros.OnDuty(start)
	s.pools.SetRoster(s.units)
	return s, nil
}

// Run executes the simulation to completion. Any routing failure aborts the
// run; context cancellation stops it between ticks.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := s.clock
	s.log.Infof("simulation start %s, end %s, %d jobs, %d units on duty",
		s.clock.Format(time.RFC3339), s.end.Format(time.RFC3339), s.admission.PoolLen(), len(s.units))

	for s.clock.Before(s.end) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.tick(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Completed:     s.completed,
		Incomplete:    s.admission.IdleLen() + s.queue.Len(),
		Compliant:     s.compliant,
		Units:         s.units,
		Start:         start,
		End:           s.clock,
		travelSeconds: s.travel,
	}
	if res.Empty() {
		s.log.Warnf("no completed jobs")
		return res, nil
	}
	s.log.Infof("run finished: %d completed, %d incomplete, compliance %.0f%%, avg travel %.0fs",
		len(res.Completed), res.Incomplete, res.ComplianceRate(), res.AvgTravelSeconds())
	return res, nil
}

// tick processes one simulated second: roster rollover, admission, matching,
// reaping, release, then the clock advances.
func (s *Simulator) tick(ctx context.Context) error {
	if s.atShiftStart() {
		s.rollDay()
	}

	available := s.pools.AvailableCount()
	s.admission.Tick(s.clock, available)

	if s.queue.Len() > 0 {
		for _, j := range s.queue.Snapshot() {
			if j.Assigned != nil {
				continue
			}
			if err := s.match(ctx, j); err != nil {
				return err
			}
		}
	}

	s.reapCompleted()
	s.pools.ReleaseFinished(s.clock)

	s.clock = s.clock.Add(time.Second)
	if s.admission.PoolLen() == 0 && s.queue.Len() == 0 && s.pools.BusyCount() == 0 {
		s.end = s.clock
	}
	return nil
}

// match geocodes the job, picks the best unit and commits the assignment.
// A no-match outcome leaves the job queued and unassigned.
func (s *Simulator) match(ctx context.Context, j *model.Job) error {
	loc, err := s.planner.Geocode(ctx, routing.Address{
		Number:   j.HouseNum1,
		Street:   j.Street,
		Suburb:   j.Suburb,
		Postcode: j.Postcode,
	})
	if err != nil {
		return fmt.Errorf("geocode job %s: %w", j.ID, err)
	}

	// The isochrone departs at the job's creation time, mirroring the
	// compliance window; the route time uses the current clock.
	unit, inIso, err := s.matcher.FindBestUnit(ctx, loc, s.cfg.ComplianceSeconds, j.Created, s.pools.Available())
	if err != nil {
		return fmt.Errorf("match job %s: %w", j.ID, err)
	}
	if unit == nil {
		return nil
	}

	travel, err := s.planner.TravelTime(ctx, unit.Location, loc, s.clock)
	if err != nil {
		return fmt.Errorf("route time for job %s: %w", j.ID, err)
	}

	compliant := int64(travel)+j.IdleSeconds < int64(s.cfg.ComplianceSeconds)
	if compliant {
		s.compliant++
	}
	j.Compliant = compliant
	if err := j.Assign(unit, travel); err != nil {
		return err
	}
	// The unit returns to its standby position afterwards, so the travel
	// leg is applied twice.
	unit.Finish = j.End.Add(time.Duration(travel) * time.Second)
	if err := s.pools.MarkBusy(unit); err != nil {
		return err
	}
	s.travel = append(s.travel, float64(travel))

	if inIso {
		s.log.Infof("job %s: unit %s matched inside %ds isochrone, travel %ds", j.ID, unit.ID, s.cfg.ComplianceSeconds, travel)
	} else {
		s.log.Infof("job %s: unit %s matched outside isochrone, travel %ds", j.ID, unit.ID, travel)
	}
	s.publish(AssignmentEvent{
		JobID:         j.ID,
		UnitID:        unit.ID,
		District:      unit.District,
		Priority:      j.Priority,
		InIsochrone:   inIso,
		TravelSeconds: travel,
		IdleSeconds:   j.IdleSeconds,
		Compliant:     compliant,
		Time:          s.clock,
	})
	return nil
}

// reapCompleted converts every assigned job ending this second into a
// completed record.
func (s *Simulator) reapCompleted() {
	done := s.queue.RemoveIf(func(j *model.Job) bool {
		return j.Assigned != nil && j.End.Equal(s.clock)
	})
	for _, j := range done {
		rec := model.NewCompletedJobRecord(j, j.Assigned, s.clock)
		s.completed = append(s.completed, rec)
		j.Assigned.JobsToday = append(j.Assigned.JobsToday, j)
		s.publish(CompletionEvent{Record: rec, Time: s.clock})
	}
}

// atShiftStart reports whether the clock is exactly at the daily shift start.
func (s *Simulator) atShiftStart() bool {
	return s.clock.Sub(midnight(s.clock)) == s.shiftStart
}

// rollDay refreshes the available pool from the roster once per day at shift
// start. The first shift start of the run only arms the rollover.
func (s *Simulator) rollDay() {
	today := midnight(s.clock)
	if s.nextDay.IsZero() {
		s.nextDay = today.AddDate(0, 0, 1)
		return
	}
	if today.Equal(s.nextDay) {
		units := s.roster.OnDuty(today)
		// A unit still out on a job stays in the busy pool until its
		// finish time; it must not appear in both pools.
		free := make([]*model.Unit, 0, len(units))
		for _, u := range units {
			if !u.Busy() {
				free = append(free, u)
			}
		}
		s.pools.SetRoster(free)
		s.mergeUnits(units)
		s.nextDay = today.AddDate(0, 0, 1)
		s.log.Infof("roster refreshed for %s: %d units on duty", today.Format("2006-01-02"), len(units))
		s.publish(RosterEvent{Date: today, Units: len(units)})
	}
}

// mergeUnits tracks units first seen on later days so the final report covers
// the whole roster.
func (s *Simulator) mergeUnits(units []*model.Unit) {
	known := make(map[*model.Unit]struct{}, len(s.units))
	for _, u := range s.units {
		known[u] = struct{}{}
	}
	for _, u := range units {
		if _, ok := known[u]; !ok {
			s.units = append(s.units, u)
		}
	}
}

func (s *Simulator) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
