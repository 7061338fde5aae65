package routing

import (
	"context"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
)

// MockPlanner is a scripted Planner for tests. Unset hooks fall back to fixed
// values so simple scenarios need no setup.
type MockPlanner struct {
	GeocodeFunc    func(Address) (geo.Coordinate, error)
	IsochroneFunc  func(geo.Coordinate, int, time.Time) (geo.Polygon, error)
	TravelTimeFunc func(geo.Coordinate, geo.Coordinate, time.Time) (int, error)

	// Defaults used when the corresponding hook is nil.
	Coord   geo.Coordinate
	Poly    geo.Polygon
	Seconds int

	GeocodeCalls    int
	IsochroneCalls  int
	TravelTimeCalls int
}

func (m *MockPlanner) Geocode(_ context.Context, addr Address) (geo.Coordinate, error) {
	m.GeocodeCalls++
	if m.GeocodeFunc != nil {
		return m.GeocodeFunc(addr)
	}
	return m.Coord, nil
}

func (m *MockPlanner) Isochrone(_ context.Context, origin geo.Coordinate, budget int, departure time.Time) (geo.Polygon, error) {
	m.IsochroneCalls++
	if m.IsochroneFunc != nil {
		return m.IsochroneFunc(origin, budget, departure)
	}
	return m.Poly, nil
}

func (m *MockPlanner) TravelTime(_ context.Context, from, to geo.Coordinate, departure time.Time) (int, error) {
	m.TravelTimeCalls++
	if m.TravelTimeFunc != nil {
		return m.TravelTimeFunc(from, to, departure)
	}
	return m.Seconds, nil
}
