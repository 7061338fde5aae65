package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldops/dispatchsim/app"
	"github.com/fieldops/dispatchsim/config"
	"github.com/fieldops/dispatchsim/infra/logger"
)

var cfgPath string

// Default input and output locations, overridable by positional arguments.
const (
	defaultJobsCSV    = "data/jobs.csv"
	defaultUnitsCSV   = "data/units.csv"
	defaultJobReport  = "jobs_report.csv"
	defaultUnitReport = "units_report.csv"
)

var rootCmd = &cobra.Command{
	Use:   "dispatchsim [jobs-csv [units-csv [job-report [unit-report]]]]",
	Short: "Field service dispatch simulator",
	Long: `dispatchsim replays a job backlog against a technician roster second by
second, matching each job to the nearest available unit inside its
travel-time isochrone, and reports completion and compliance figures.`,
	Args: cobra.MaximumNArgs(4),
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the config file, falling back to compiled-in defaults when
// the default file is absent and the flag was not set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
			logger.New("main").Warnf("no config file at %s, using defaults", cfgPath)
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	paths := app.Paths{
		JobsCSV:    defaultJobsCSV,
		UnitsCSV:   defaultUnitsCSV,
		JobReport:  defaultJobReport,
		UnitReport: defaultUnitReport,
	}
	if len(args) > 0 {
		paths.JobsCSV = args[0]
	}
	if len(args) > 1 {
		paths.UnitsCSV = args[1]
	}
	if len(args) > 2 {
		paths.JobReport = args[2]
	}
	if len(args) > 3 {
		paths.UnitReport = args[3]
	}

	svc, err := app.New(cfg, paths)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
