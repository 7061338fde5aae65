package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatchsim/core/geo"
	corerouting "github.com/fieldops/dispatchsim/core/routing"
	infrarouting "github.com/fieldops/dispatchsim/infra/routing"
)

var (
	geoAddress string
	geoOrigin  string
	geoBudget  int
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Probe isochrone membership for an address",
	Long: `geo geocodes an address and checks whether it lies inside the
travel-time isochrone around a unit position. Useful for debugging
matching decisions.`,
	RunE: probeGeo,
}

func init() {
	geoCmd.Flags().StringVar(&geoAddress, "address", "", "street address to probe, e.g. '12 Church Street, PARRAMATTA, 2150'")
	geoCmd.Flags().StringVar(&geoOrigin, "origin", "", "unit position as 'lat,lon'")
	geoCmd.Flags().IntVar(&geoBudget, "budget", 1800, "isochrone travel budget in seconds")
	_ = geoCmd.MarkFlagRequired("address")
	_ = geoCmd.MarkFlagRequired("origin")
	rootCmd.AddCommand(geoCmd)
}

func parseOrigin(s string) (geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("origin must be 'lat,lon', got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("origin latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("origin longitude: %w", err)
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

func probeGeo(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	origin, err := parseOrigin(geoOrigin)
	if err != nil {
		return err
	}

	client, err := infrarouting.NewClient(cfg.Routing)
	if err != nil {
		return err
	}
	loc, err := client.Geocode(ctx, corerouting.Address{Street: geoAddress})
	if err != nil {
		return err
	}
	poly, err := client.Isochrone(ctx, origin, geoBudget, time.Now())
	if err != nil {
		return err
	}

	inside := geo.PointInPolygon(poly, loc)
	cmd.Printf("address resolved to %.5f,%.5f\n", loc.Lat, loc.Lon)
	cmd.Printf("isochrone boundary has %d points\n", len(poly))
	cmd.Printf("straight-line distance: %.3f\n", geo.Distance(origin, loc))
	if inside {
		cmd.Printf("address is INSIDE the %ds isochrone\n", geoBudget)
	} else {
		cmd.Printf("address is OUTSIDE the %ds isochrone\n", geoBudget)
	}
	return nil
}
