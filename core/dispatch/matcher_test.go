package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/core/routing"
	"github.com/fieldops/dispatchsim/infra/logger"
)

func unitAt(id string, lat, lon float64) *model.Unit {
	return &model.Unit{ID: id, Location: geo.Coordinate{Lat: lat, Lon: lon}}
}

func isoSquare() geo.Polygon {
	return geo.Polygon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0}}
}

func TestFindBestUnit_NearestInsideIsochrone(t *testing.T) {
	planner := &routing.MockPlanner{Poly: isoSquare()}
	m := NewMatcher(planner, 0, logger.NopLogger{})

	units := []*model.Unit{
		unitAt("far", 9, 9),
		unitAt("near", 5, 6),
		unitAt("outside", 50, 50),
	}
	u, inIso, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 5, Lon: 5}, 1800, time.Now(), units)
	if err != nil {
		t.Fatalf("FindBestUnit: %v", err)
	}
	if u == nil || u.ID != "near" {
		t.Fatalf("expected 'near', got %+v", u)
	}
	if !inIso {
		t.Fatal("expected an in-isochrone match")
	}
}

func TestFindBestUnit_FallbackOutsideIsochrone(t *testing.T) {
	// Isochrone contains no unit; the nearest unit overall must win.
	planner := &routing.MockPlanner{Poly: isoSquare()}
	m := NewMatcher(planner, 0, logger.NopLogger{})

	units := []*model.Unit{unitAt("only", 60, 60)}
	u, inIso, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 50, Lon: 50}, 1800, time.Now(), units)
	if err != nil {
		t.Fatalf("FindBestUnit: %v", err)
	}
	if u == nil || u.ID != "only" {
		t.Fatalf("expected fallback match, got %+v", u)
	}
	if inIso {
		t.Fatal("fallback match must not be flagged in-isochrone")
	}
}

func TestFindBestUnit_DistanceCap(t *testing.T) {
	planner := &routing.MockPlanner{Poly: isoSquare()}
	m := NewMatcher(planner, 0, logger.NopLogger{})

	// The only unit is beyond the 200-unit cap from the job.
	units := []*model.Unit{unitAt("remote", 500, 500)}
	u, _, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 50, Lon: 50}, 1800, time.Now(), units)
	if err != nil {
		t.Fatalf("FindBestUnit: %v", err)
	}
	if u != nil {
		t.Fatalf("unit beyond the distance cap must never match, got %s", u.ID)
	}
}

func TestFindBestUnit_NoAvailableUnits(t *testing.T) {
	planner := &routing.MockPlanner{Poly: isoSquare()}
	m := NewMatcher(planner, 0, logger.NopLogger{})
	u, _, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 5, Lon: 5}, 1800, time.Now(), nil)
	if err != nil {
		t.Fatalf("FindBestUnit: %v", err)
	}
	if u != nil {
		t.Fatalf("expected no match with empty pool, got %s", u.ID)
	}
	if planner.IsochroneCalls != 0 {
		t.Fatal("no isochrone request expected for an empty pool")
	}
}

func TestFindBestUnit_PlannerErrorPropagates(t *testing.T) {
	wantErr := errors.New("route service unavailable")
	planner := &routing.MockPlanner{
		IsochroneFunc: func(geo.Coordinate, int, time.Time) (geo.Polygon, error) {
			return nil, wantErr
		},
	}
	m := NewMatcher(planner, 0, logger.NopLogger{})
	_, _, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 5, Lon: 5}, 1800, time.Now(), []*model.Unit{unitAt("u", 5, 5)})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected planner error to propagate, got %v", err)
	}
}

func TestFindBestUnit_BoundaryUnitCountsInside(t *testing.T) {
	planner := &routing.MockPlanner{Poly: isoSquare()}
	m := NewMatcher(planner, 0, logger.NopLogger{})

	units := []*model.Unit{unitAt("edge", 0, 5)}
	u, inIso, err := m.FindBestUnit(context.Background(), geo.Coordinate{Lat: 1, Lon: 5}, 1800, time.Now(), units)
	if err != nil {
		t.Fatalf("FindBestUnit: %v", err)
	}
	if u == nil || !inIso {
		t.Fatalf("unit on the isochrone boundary must count as inside, got %+v in=%v", u, inIso)
	}
}
