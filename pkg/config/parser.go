package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Keys understood by ApplyOverrides. They double as flag names.
const (
	KeyArrivalRate      = "arrival-rate"
	KeyServiceRate      = "service-rate"
	KeyServers          = "servers"
	KeyHorizon          = "horizon"
	KeySeed             = "seed"
	KeySnapshotSchedule = "snapshot-schedule"
	KeyTimeUnit         = "time-unit"
	KeyCSVFile          = "csv-file"
	KeyDataFile         = "data-file"
	KeyPlotFile         = "plot-file"
	KeyScriptFile       = "script-file"
	KeyPlotBackend      = "plot-backend"
)

// LoadConfig loads and parses the configuration file on top of the defaults.
// The result is not validated; call Validate once all overrides are applied.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyOverrides copies every key explicitly set in v (flag, environment)
// onto cfg. Keys that were never set leave cfg untouched.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if v.IsSet(KeyArrivalRate) {
		cfg.ArrivalRate = v.GetFloat64(KeyArrivalRate)
	}
	if v.IsSet(KeyServiceRate) {
		cfg.ServiceRate = v.GetFloat64(KeyServiceRate)
	}
	if v.IsSet(KeyServers) {
		cfg.NumServers = v.GetInt(KeyServers)
	}
	if v.IsSet(KeyHorizon) {
		cfg.Horizon = v.GetFloat64(KeyHorizon)
	}
	if v.IsSet(KeySeed) {
		cfg.Seed = v.GetInt64(KeySeed)
	}
	if v.IsSet(KeySnapshotSchedule) {
		cfg.SnapshotSchedule = v.GetString(KeySnapshotSchedule)
	}
	if v.IsSet(KeyTimeUnit) {
		cfg.TimeUnit = v.GetDuration(KeyTimeUnit)
	}
	if v.IsSet(KeyCSVFile) {
		cfg.Output.CSVFile = v.GetString(KeyCSVFile)
	}
	if v.IsSet(KeyDataFile) {
		cfg.Output.DataFile = v.GetString(KeyDataFile)
	}
	if v.IsSet(KeyPlotFile) {
		cfg.Output.PlotFile = v.GetString(KeyPlotFile)
	}
	if v.IsSet(KeyScriptFile) {
		cfg.Output.ScriptFile = v.GetString(KeyScriptFile)
	}
	if v.IsSet(KeyPlotBackend) {
		cfg.Output.PlotBackend = PlotBackend(v.GetString(KeyPlotBackend))
	}
}

// Validate validates the configuration
func Validate(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return nil
}

// ParseSchedule parses a five field cron expression
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(spec)
}

// positive rejects NaN and infinities along with non-positive values
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func validateConfig(config *Config) error {
	if !positive(config.ArrivalRate) {
		return fmt.Errorf("arrivalRate must be a finite number greater than 0")
	}

	if !positive(config.ServiceRate) {
		return fmt.Errorf("serviceRate must be a finite number greater than 0")
	}

	if config.NumServers < 0 {
		return fmt.Errorf("numServers must not be negative")
	}

	if !positive(config.Horizon) {
		return fmt.Errorf("horizon must be a finite number greater than 0")
	}

	if config.SnapshotSchedule != "" {
		if config.TimeUnit <= 0 {
			return fmt.Errorf("timeUnit must be greater than 0 when snapshotSchedule is set")
		}
		if _, err := ParseSchedule(config.SnapshotSchedule); err != nil {
			return fmt.Errorf("snapshotSchedule %q: %v", config.SnapshotSchedule, err)
		}
	}

	switch config.Output.PlotBackend {
	case PlotBackendGonum, PlotBackendGnuplot, PlotBackendNone:
	default:
		return fmt.Errorf("plotBackend must be one of 'gonum', 'gnuplot' or 'none'")
	}

	return nil
}
