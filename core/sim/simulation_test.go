package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/core/roster"
	"github.com/fieldops/dispatchsim/core/routing"
	"github.com/fieldops/dispatchsim/infra/logger"
)

var (
	day     = time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	nineAM  = day.Add(9 * time.Hour)
	jobLoc  = geo.Coordinate{Lat: -33.8, Lon: 151.2}
	metro   = geo.Polygon{{Lat: -33.0, Lon: 150.0}, {Lat: -33.0, Lon: 152.0}, {Lat: -35.0, Lon: 152.0}, {Lat: -35.0, Lon: 150.0}}
	farAway = geo.Coordinate{Lat: 30.0, Lon: -100.0}
)

func testConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

func testJob(id string, created time.Time) *model.Job {
	return &model.Job{
		ID: id, Created: created, DurationMinutes: 30, Priority: 2,
		Street: "George St", Suburb: "Sydney", HouseNum1: "1", Postcode: "2000",
	}
}

func testPlanner(travelSeconds int) *routing.MockPlanner {
	return &routing.MockPlanner{Coord: jobLoc, Poly: metro, Seconds: travelSeconds}
}

func run(t *testing.T, cfg Config, jobs []*model.Job, units []*model.Unit, planner routing.Planner) *Result {
	t.Helper()
	s, err := New(cfg, jobs, roster.NewMemory(units), planner, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRun_EndToEndSingleJob(t *testing.T) {
	j := testJob("J1", nineAM)
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	res := run(t, testConfig(), []*model.Job{j}, []*model.Unit{u}, testPlanner(300))

	if len(res.Completed) != 1 {
		t.Fatalf("expected exactly one completed job, got %d", len(res.Completed))
	}
	rec := res.Completed[0]
	if rec.Job != j || rec.Unit != u {
		t.Fatalf("record pairs wrong job/unit: %+v", rec)
	}
	if j.Assigned != u {
		t.Fatalf("job not assigned to the rostered unit")
	}
	if j.TravelSeconds != 300 {
		t.Fatalf("travel = %d, want 300", j.TravelSeconds)
	}

	wantEnd := nineAM.Add(30*time.Minute + 300*time.Second)
	if !j.End.Equal(wantEnd) {
		t.Fatalf("job end = %s, want %s", j.End, wantEnd)
	}
	if !rec.CompletedAt.Equal(wantEnd) {
		t.Fatalf("record completed at %s, want %s", rec.CompletedAt, wantEnd)
	}
	// Return leg: the unit frees up one more travel time after the job end.
	if !u.Finish.IsZero() {
		t.Fatalf("unit finish must be cleared after release, got %s", u.Finish)
	}
	if len(u.JobsToday) != 1 || u.JobsToday[0] != j {
		t.Fatalf("completed job missing from the unit's daily list")
	}

	if res.Incomplete != 0 || res.Compliant != 1 {
		t.Fatalf("incomplete=%d compliant=%d", res.Incomplete, res.Compliant)
	}
	if rate := res.ComplianceRate(); rate != 100 {
		t.Fatalf("compliance rate = %v, want 100", rate)
	}
	if avg := res.AvgTravelSeconds(); avg != 300 {
		t.Fatalf("avg travel = %v, want 300", avg)
	}
	// The run terminates shortly after the unit's return leg.
	wantQuiet := wantEnd.Add(300*time.Second + time.Second)
	if !res.End.Equal(wantQuiet) {
		t.Fatalf("run end = %s, want %s", res.End, wantQuiet)
	}
}

func TestRun_IdleBacklogAccruesIdleTime(t *testing.T) {
	j1 := testJob("J1", nineAM)
	j2 := testJob("J2", nineAM.Add(10*time.Minute))
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	res := run(t, testConfig(), []*model.Job{j1, j2}, []*model.Unit{u}, testPlanner(300))

	if len(res.Completed) != 2 {
		t.Fatalf("expected both jobs completed, got %d", len(res.Completed))
	}
	// U1 is out on J1 from 09:00:00 until 09:40:00 (30min work + two
	// 300s travel legs). J2 arrives at 09:10 with no free unit, so it
	// waits in the idle backlog and is promoted on the first tick after
	// release: 09:40:01, i.e. 1801s of idle time.
	if j2.IdleSeconds != 1801 {
		t.Fatalf("j2 idle = %d, want 1801", j2.IdleSeconds)
	}
	// 300s travel + 1801s idle exceeds the 1800s compliance window.
	if res.Compliant != 1 {
		t.Fatalf("compliant = %d, want 1", res.Compliant)
	}
	if rate := res.ComplianceRate(); rate != 50 {
		t.Fatalf("compliance rate = %v, want 50", rate)
	}
}

func TestRun_QueuedJobWaitsForBusyUnit(t *testing.T) {
	// Both jobs arrive on the same tick while the unit is free: both are
	// admitted directly, and the lower-priority job waits in the active
	// queue, not the idle backlog.
	j1 := testJob("J1", nineAM)
	j1.Priority = 1
	j2 := testJob("J2", nineAM)
	j2.Priority = 5
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	res := run(t, testConfig(), []*model.Job{j1, j2}, []*model.Unit{u}, testPlanner(300))

	if len(res.Completed) != 2 {
		t.Fatalf("expected both jobs completed, got %d", len(res.Completed))
	}
	if j1.Assigned != u || j2.Assigned != u {
		t.Fatal("both jobs must be serviced by the only unit")
	}
	if j2.IdleSeconds != 0 {
		t.Fatalf("queued job must not accrue idle backlog time, got %d", j2.IdleSeconds)
	}
	if !j1.End.Before(j2.End) {
		t.Fatalf("urgent job should finish first: j1 end %s, j2 end %s", j1.End, j2.End)
	}
}

func TestRun_DayRolloverRefreshesRoster(t *testing.T) {
	// One job per day, one unit rostered per day. The shift-start refresh
	// must swap the day-one unit out for the day-two unit, and the final
	// roster must cover both.
	dayTwo := day.AddDate(0, 0, 1)
	j1 := testJob("J1", nineAM)
	j2 := testJob("J2", dayTwo.Add(9*time.Hour))
	u1 := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}, DutyDate: day}
	u2 := &model.Unit{ID: "U2", Location: geo.Coordinate{Lat: -33.7, Lon: 151.3}, DutyDate: dayTwo}
	res := run(t, testConfig(), []*model.Job{j1, j2}, []*model.Unit{u1, u2}, testPlanner(300))

	if len(res.Completed) != 2 {
		t.Fatalf("expected both jobs completed, got %d", len(res.Completed))
	}
	if j1.Assigned != u1 {
		t.Fatalf("day-one job went to %v, want U1", j1.Assigned)
	}
	if j2.Assigned != u2 {
		t.Fatalf("day-two job went to %v, want U2", j2.Assigned)
	}
	// U1 sat idle on day two but was off duty, so it must not service J2.
	if len(u2.JobsToday) != 1 || u2.JobsToday[0] != j2 {
		t.Fatal("day-two job missing from U2's daily list")
	}
	if len(res.Units) != 2 {
		t.Fatalf("result roster has %d units, want both days' units", len(res.Units))
	}
	if rate := res.ComplianceRate(); rate != 100 {
		t.Fatalf("compliance rate = %v, want 100", rate)
	}
}

func TestRun_RolloverKeepsBusyUnitOut(t *testing.T) {
	// J1 keeps the only unit out across the day boundary: 22:00 start plus
	// 10h of work and two 300s travel legs frees it at 08:10:00 on day
	// two. The 07:00 refresh sees the unit still busy and must not put it
	// back into the available pool early.
	j1 := testJob("J1", day.Add(22*time.Hour))
	j1.DurationMinutes = 600
	j2 := testJob("J2", day.AddDate(0, 0, 1).Add(7*time.Hour+30*time.Minute))
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	res := run(t, testConfig(), []*model.Job{j1, j2}, []*model.Unit{u}, testPlanner(300))

	if len(res.Completed) != 2 {
		t.Fatalf("expected both jobs completed, got %d", len(res.Completed))
	}
	// J2 waits in the idle backlog from 07:30 until the first tick after
	// the release, 08:10:01.
	if j2.IdleSeconds != 2401 {
		t.Fatalf("j2 idle = %d, want 2401", j2.IdleSeconds)
	}
	if res.Compliant != 1 {
		t.Fatalf("compliant = %d, want 1", res.Compliant)
	}
	// The refresh must not duplicate the unit into the roster either.
	if len(res.Units) != 1 {
		t.Fatalf("result roster has %d units, want 1", len(res.Units))
	}
}

func TestRun_NoUnitsMeansNoCompletions(t *testing.T) {
	j := testJob("J1", nineAM)
	res := run(t, testConfig(), []*model.Job{j}, nil, testPlanner(300))
	if !res.Empty() {
		t.Fatal("expected an empty result")
	}
	if res.Incomplete != 1 {
		t.Fatalf("incomplete = %d, want 1", res.Incomplete)
	}
	if res.ComplianceRate() != 0 {
		t.Fatalf("compliance rate should be 0, got %v", res.ComplianceRate())
	}
}

func TestRun_UnitBeyondCapNeverMatches(t *testing.T) {
	j := testJob("J1", nineAM)
	// Outside the isochrone and farther than the 200-unit cap.
	u := &model.Unit{ID: "U1", Location: farAway}
	res := run(t, testConfig(), []*model.Job{j}, []*model.Unit{u}, testPlanner(300))
	if !res.Empty() {
		t.Fatal("expected no completions for a capped-out unit")
	}
	if j.Assigned != nil {
		t.Fatalf("job must stay unassigned, got unit %s", j.Assigned.ID)
	}
	if res.Incomplete != 1 {
		t.Fatalf("incomplete = %d, want 1", res.Incomplete)
	}
}

func TestRun_RoutingErrorAbortsRun(t *testing.T) {
	j := testJob("J1", nineAM)
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	wantErr := errors.New("maps api down")
	planner := testPlanner(300)
	planner.TravelTimeFunc = func(geo.Coordinate, geo.Coordinate, time.Time) (int, error) {
		return 0, wantErr
	}
	s, err := New(testConfig(), []*model.Job{j}, roster.NewMemory([]*model.Unit{u}), planner, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected routing failure to abort the run, got %v", err)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	j := testJob("J1", nineAM)
	u := &model.Unit{ID: "U1", Location: geo.Coordinate{Lat: -33.9, Lon: 151.1}}
	s, err := New(testConfig(), []*model.Job{j}, roster.NewMemory([]*model.Unit{u}), testPlanner(300), nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_RejectsEmptyBacklog(t *testing.T) {
	_, err := New(testConfig(), nil, roster.NewMemory(nil), testPlanner(0), nil, logger.NopLogger{})
	if err == nil {
		t.Fatal("expected error for empty backlog")
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ShiftStart = "seven"
	_, err := New(cfg, []*model.Job{testJob("J1", nineAM)}, roster.NewMemory(nil), testPlanner(0), nil, logger.NopLogger{})
	if err == nil {
		t.Fatal("expected error for invalid shift start")
	}
}
