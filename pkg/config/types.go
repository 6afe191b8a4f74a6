package config

import (
	"time"
)

// Config represents the entire configuration for the queue simulator
type Config struct {
	ArrivalRate float64 `yaml:"arrivalRate"`
	ServiceRate float64 `yaml:"serviceRate"`
	NumServers  int     `yaml:"numServers"`
	Horizon     float64 `yaml:"horizon"`

	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64 `yaml:"seed,omitempty"`

	// Queue snapshots, taken on a cron schedule over simulated time
	SnapshotSchedule string        `yaml:"snapshotSchedule,omitempty"`
	TimeUnit         time.Duration `yaml:"timeUnit,omitempty"`

	Output Output `yaml:"output"`
}

// Output holds the paths of the generated files
type Output struct {
	CSVFile     string      `yaml:"csvFile"`
	DataFile    string      `yaml:"dataFile"`
	PlotFile    string      `yaml:"plotFile"`
	ScriptFile  string      `yaml:"scriptFile"`
	PlotBackend PlotBackend `yaml:"plotBackend"`
}

// PlotBackend selects how the service time graph is produced
type PlotBackend string

const (
	PlotBackendGonum   PlotBackend = "gonum"
	PlotBackendGnuplot PlotBackend = "gnuplot"
	PlotBackendNone    PlotBackend = "none"
)

const (
	DefaultHorizon    = 1000.0
	DefaultTimeUnit   = time.Minute
	DefaultCSVFile    = "simulation_results.csv"
	DefaultDataFile   = "service_times.dat"
	DefaultPlotFile   = "service_times_graph.png"
	DefaultScriptFile = "gnuplot_script.gp"
)

// Default returns a configuration with every optional field filled in.
// The rates and server count are left zero and must be supplied.
func Default() *Config {
	return &Config{
		Horizon:  DefaultHorizon,
		TimeUnit: DefaultTimeUnit,
		Output: Output{
			CSVFile:     DefaultCSVFile,
			DataFile:    DefaultDataFile,
			PlotFile:    DefaultPlotFile,
			ScriptFile:  DefaultScriptFile,
			PlotBackend: PlotBackendGonum,
		},
	}
}
