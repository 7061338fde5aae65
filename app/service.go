// Package app wires configuration, ingestion, routing, observability and the
// simulator into a runnable service.
package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fieldops/dispatchsim/config"
	"github.com/fieldops/dispatchsim/core/dispatch/logging"
	coremetrics "github.com/fieldops/dispatchsim/core/metrics"
	"github.com/fieldops/dispatchsim/core/roster"
	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/infra/events"
	"github.com/fieldops/dispatchsim/infra/ingest"
	"github.com/fieldops/dispatchsim/infra/logger"
	"github.com/fieldops/dispatchsim/infra/metrics"
	"github.com/fieldops/dispatchsim/infra/report"
	infrarouting "github.com/fieldops/dispatchsim/infra/routing"
	"github.com/fieldops/dispatchsim/internal/eventbus"
)

// Paths names the input and output files of one run.
type Paths struct {
	JobsCSV    string
	UnitsCSV   string
	JobReport  string
	UnitReport string
}

// Service orchestrates one simulation run.
type Service struct {
	cfg   *config.Config
	paths Paths
	log   logger.Logger

	bus      eventbus.EventBus
	logStore logging.LogStore
}

// New creates a Service from the configuration.
func New(cfg *config.Config, paths Paths) (*Service, error) {
	return &Service{
		cfg:   cfg,
		paths: paths,
		log:   logger.New("service"),
		bus:   eventbus.New(),
	}, nil
}

// Run executes the simulation end to end: ingest, simulate, report.
func (s *Service) Run(ctx context.Context) error {
	jobs, err := ingest.NewJobReader(s.log).ReadFile(s.paths.JobsCSV)
	if err != nil {
		return fmt.Errorf("ingest jobs: %w", err)
	}
	units, err := ingest.NewUnitReader(s.log).ReadFile(s.paths.UnitsCSV)
	if err != nil {
		return fmt.Errorf("ingest units: %w", err)
	}
	s.log.Infof("ingested %d jobs, %d units", len(jobs), len(units))

	planner, err := infrarouting.NewClient(s.cfg.Routing)
	if err != nil {
		return fmt.Errorf("routing client: %w", err)
	}

	sink, err := s.buildSink()
	if err != nil {
		return err
	}
	metrics.StartEventCollector(ctx, s.bus, sink)
	if port := s.cfg.Metrics.PromPort; port > 0 {
		go func() {
			if err := metrics.StartPromServer(ctx, strconv.Itoa(port)); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.cfg.Logging.Enabled {
		store, err := logging.Open(s.cfg.Logging.Backend, s.cfg.Logging.Path)
		if err != nil {
			return fmt.Errorf("assignment log store: %w", err)
		}
		s.logStore = store
		logging.StartCollector(ctx, s.bus, store, s.log)
	}

	publisher, err := events.NewPublisher(s.cfg.Events)
	if err != nil {
		return fmt.Errorf("mqtt publisher: %w", err)
	}
	publisher.Start(ctx, s.bus)

	simulator, err := sim.New(s.cfg.Simulation, jobs, roster.NewMemory(units), planner, s.bus, s.log)
	if err != nil {
		return err
	}
	res, err := simulator.Run(ctx)
	if err != nil {
		return err
	}

	if sr, ok := sink.(coremetrics.SummaryRecorder); ok {
		_ = sr.RecordRunSummary(coremetrics.RunSummary{
			Completed:        len(res.Completed),
			Incomplete:       res.Incomplete,
			Compliant:        res.Compliant,
			ComplianceRate:   res.ComplianceRate(),
			AvgTravelSeconds: res.AvgTravelSeconds(),
			Start:            res.Start,
			End:              res.End,
		})
	}

	if res.Empty() {
		s.log.Warnf("no jobs completed, skipping reports")
		return nil
	}
	w := report.NewWriter(s.log)
	if err := w.WriteJobReport(s.paths.JobReport, res); err != nil {
		return err
	}
	return w.WriteUnitReport(s.paths.UnitReport, res)
}

// buildSink assembles the configured metrics sinks into one.
func (s *Service) buildSink() (coremetrics.MetricsSink, error) {
	sinks, err := coremetrics.NewSinks(s.cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return metrics.NewMultiSink(sinks...), nil
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.logStore != nil {
		return s.logStore.Close()
	}
	return nil
}
