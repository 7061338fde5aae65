package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
	"github.com/fieldops/dispatchsim/core/model"
	"github.com/fieldops/dispatchsim/infra/logger"
)

const unitColumns = 5

// Unit CSV column layout: id, lat, lon, district, duty date (YYYYMMDD, may be
// empty for units on duty every day).
const (
	colUnitID = iota
	colUnitLat
	colUnitLon
	colUnitDistrict
	colUnitDutyDate
)

// UnitReader parses duty roster extracts.
type UnitReader struct {
	log logger.Logger
}

// NewUnitReader creates a UnitReader.
func NewUnitReader(log logger.Logger) *UnitReader {
	if log == nil {
		log = logger.New("ingest")
	}
	return &UnitReader{log: log}
}

// ReadFile loads all units from the CSV file at path.
func (r *UnitReader) ReadFile(path string) ([]*model.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open units file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(f)
}

// Read parses units from src with the same skip-on-error recovery as jobs.
func (r *UnitReader) Read(src io.Reader) ([]*model.Unit, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var units []*model.Unit
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read units csv: %w", err)
		}
		line++
		unit, err := parseUnit(rec)
		if err != nil {
			if line == 1 && looksLikeHeader(rec) {
				continue
			}
			r.log.Warnf("skipping unit record %d: %v", line, err)
			continue
		}
		units = append(units, unit)
	}
	return units, nil
}

func parseUnit(rec []string) (*model.Unit, error) {
	if len(rec) != unitColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", unitColumns, len(rec))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rec[colUnitLat]), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude %q: %w", rec[colUnitLat], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rec[colUnitLon]), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude %q: %w", rec[colUnitLon], err)
	}
	unit := &model.Unit{
		ID:       strings.TrimSpace(rec[colUnitID]),
		Location: geo.Coordinate{Lat: lat, Lon: lon},
		District: strings.TrimSpace(rec[colUnitDistrict]),
	}
	if duty := strings.TrimSpace(rec[colUnitDutyDate]); duty != "" {
		d, err := time.ParseInLocation("20060102", duty, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("duty date %q: %w", duty, err)
		}
		unit.DutyDate = d
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	return unit, nil
}
