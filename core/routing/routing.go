// Package routing defines the contract with the external geocoding, isochrone
// and route-time provider. The simulation core depends only on the Planner
// interface; the HTTP implementation lives in infra/routing.
package routing

import (
	"context"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
)

// Address identifies a street address to geocode.
type Address struct {
	Number   string
	Street   string
	Suburb   string
	Postcode string
}

// Planner exposes the three network operations the simulation needs. Every
// failure is surfaced as an error; callers decide whether to abort. The
// simulation treats any Planner error as fatal to the run.
type Planner interface {
	// Geocode resolves an address into a coordinate.
	Geocode(ctx context.Context, addr Address) (geo.Coordinate, error)

	// Isochrone returns the polygon of locations reachable from origin
	// within budgetSeconds of travel, departing at the given time.
	Isochrone(ctx context.Context, origin geo.Coordinate, budgetSeconds int, departure time.Time) (geo.Polygon, error)

	// TravelTime returns the route travel time in seconds between two
	// coordinates for the given departure time.
	TravelTime(ctx context.Context, from, to geo.Coordinate, departure time.Time) (int, error)
}
