// Package routing implements the core routing.Planner against an
// Azure-Maps-style REST API: address search, reachable-range isochrones and
// route directions. Every call is a blocking network round trip; failures are
// returned to the caller, which treats them as fatal to the run.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
	corerouting "github.com/fieldops/dispatchsim/core/routing"
	"github.com/fieldops/dispatchsim/infra/logger"
)

// Client is an HTTP routing.Planner.
type Client struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewClient creates a Client for the configured provider.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    logger.New("routing-client"),
	}, nil
}

type position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type searchResponse struct {
	Results []struct {
		Position position `json:"position"`
	} `json:"results"`
}

// Geocode resolves a street address to a coordinate.
func (c *Client) Geocode(ctx context.Context, addr corerouting.Address) (geo.Coordinate, error) {
	query := fmt.Sprintf("%s %s %s %s", addr.Number, addr.Street, addr.Suburb, addr.Postcode)
	params := url.Values{
		"api-version":      {"1.0"},
		"subscription-key": {c.cfg.APIKey},
		"countrySet":       {c.cfg.CountrySet},
		"query":            {query},
	}
	var resp searchResponse
	if err := c.get(ctx, "/search/address/json", params, &resp); err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return geo.Coordinate{}, fmt.Errorf("geocode %q: no results", query)
	}
	p := resp.Results[0].Position
	return geo.Coordinate{Lat: p.Lat, Lon: p.Lon}, nil
}

type rangeResponse struct {
	ReachableRange struct {
		Boundary []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"boundary"`
	} `json:"reachableRange"`
}

// Isochrone fetches the reachable-range polygon around origin for the given
// travel-time budget.
func (c *Client) Isochrone(ctx context.Context, origin geo.Coordinate, budgetSeconds int, departure time.Time) (geo.Polygon, error) {
	params := url.Values{
		"api-version":       {"1.0"},
		"subscription-key":  {c.cfg.APIKey},
		"query":             {fmt.Sprintf("%f,%f", origin.Lat, origin.Lon)},
		"timeBudgetInSec":   {fmt.Sprintf("%d", budgetSeconds)},
		"departAt":          {departure.Format(time.RFC3339)},
		"routeType":         {"fastest"},
		"traffic":           {"true"},
		"travelMode":        {"car"},
		"computeTravelTime": {"all"},
	}
	var resp rangeResponse
	if err := c.get(ctx, "/route/range/json", params, &resp); err != nil {
		return nil, fmt.Errorf("isochrone at %v: %w", origin, err)
	}
	boundary := resp.ReachableRange.Boundary
	if len(boundary) < 3 {
		return nil, fmt.Errorf("isochrone at %v: boundary has %d points", origin, len(boundary))
	}
	poly := make(geo.Polygon, len(boundary))
	for i, b := range boundary {
		poly[i] = geo.Coordinate{Lat: b.Latitude, Lon: b.Longitude}
	}
	return poly, nil
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			TravelTimeInSeconds int `json:"travelTimeInSeconds"`
		} `json:"summary"`
	} `json:"routes"`
}

// TravelTime fetches the route travel time between two coordinates.
func (c *Client) TravelTime(ctx context.Context, from, to geo.Coordinate, departure time.Time) (int, error) {
	params := url.Values{
		"api-version":      {"1.0"},
		"subscription-key": {c.cfg.APIKey},
		"query":            {fmt.Sprintf("%f,%f:%f,%f", from.Lat, from.Lon, to.Lat, to.Lon)},
		"departAt":         {departure.Format(time.RFC3339)},
		"routeType":        {"fastest"},
		"traffic":          {"true"},
	}
	var resp directionsResponse
	if err := c.get(ctx, "/route/directions/json", params, &resp); err != nil {
		return 0, fmt.Errorf("route time: %w", err)
	}
	if len(resp.Routes) == 0 {
		return 0, fmt.Errorf("route time: no routes returned")
	}
	return resp.Routes[0].Summary.TravelTimeInSeconds, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
