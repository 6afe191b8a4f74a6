package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sherine-k/queuesim/pkg/chart"
	"github.com/sherine-k/queuesim/pkg/config"
	"github.com/sherine-k/queuesim/pkg/plot"
	"github.com/sherine-k/queuesim/pkg/report"
	"github.com/sherine-k/queuesim/pkg/simulation"
	"github.com/sherine-k/queuesim/pkg/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type options struct {
	showTimeline     bool
	timelineLimit    int
	showEventSummary bool
	interactive      bool
	verbose          bool
	noColor          bool
}

var rootCmd = NewRootCmd()

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd builds the root command with its own flag and environment bindings
func NewRootCmd() *cobra.Command {
	opts := &options{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "queuesim",
		Short: "Multi-server queue simulator",
		Long: `A CLI tool that simulates a multi-server queue.

Customers arrive and are served according to exponential distributions over a
fixed horizon. The tool prints every served customer and the mean, median and
mode of the service times, then writes a CSV report, a plot data file and a
service time graph.

Parameters are read from flags, QUEUESIM_* environment variables or a YAML
configuration file, in that order of precedence.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, v, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to configuration file")
	flags.Float64P(config.KeyArrivalRate, "a", 0, "Arrival rate (customers per unit time)")
	flags.Float64P(config.KeyServiceRate, "m", 0, "Service rate (services per unit time)")
	flags.IntP(config.KeyServers, "n", 0, "Number of servers")
	flags.Float64(config.KeyHorizon, config.DefaultHorizon, "Simulated time to run for")
	flags.Int64(config.KeySeed, 0, "Random seed (0 seeds from the clock)")
	flags.String(config.KeySnapshotSchedule, "", "Cron schedule of queue snapshots over simulated time")
	flags.Duration(config.KeyTimeUnit, config.DefaultTimeUnit, "Calendar length of one simulated time unit, for snapshots")
	flags.String(config.KeyCSVFile, config.DefaultCSVFile, "CSV report path")
	flags.String(config.KeyDataFile, config.DefaultDataFile, "Plot data file path")
	flags.String(config.KeyPlotFile, config.DefaultPlotFile, "Service time graph path")
	flags.String(config.KeyScriptFile, config.DefaultScriptFile, "gnuplot script path")
	flags.String(config.KeyPlotBackend, string(config.PlotBackendGonum), "Graph backend: gonum, gnuplot or none")

	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for arrival rate, service rate and server count")
	flags.BoolVarP(&opts.showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	flags.IntVarP(&opts.timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	flags.BoolVarP(&opts.showEventSummary, "summary", "s", true, "Show event summary")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every simulation step")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	v.SetEnvPrefix("QUEUESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Only fails on a nil flag set
	_ = v.BindPFlags(flags)

	return cmd
}

// noColorDefault is what fatih/color detected for the terminal at startup
var noColorDefault = color.NoColor

func runSimulation(cmd *cobra.Command, v *viper.Viper, opts *options) error {
	out := cmd.OutOrStdout()

	color.NoColor = opts.noColor || noColorDefault
	logrus.SetOutput(cmd.ErrOrStderr())
	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	// Load configuration
	configFile := v.GetString("config")
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config.ApplyOverrides(cfg, v)

	if opts.interactive {
		if err := promptParameters(cmd.InOrStdin(), out, cfg); err != nil {
			return fmt.Errorf("failed to read parameters: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if configFile != "" {
		fmt.Fprintf(out, "Loaded configuration from %s\n", configFile)
	}
	fmt.Fprintf(out, "  - Arrival Rate: %g\n", cfg.ArrivalRate)
	fmt.Fprintf(out, "  - Service Rate: %g\n", cfg.ServiceRate)
	fmt.Fprintf(out, "  - Servers: %d\n", cfg.NumServers)
	fmt.Fprintf(out, "  - Horizon: %g\n\n", cfg.Horizon)

	// Create and run simulator
	sim := simulation.NewSimulator(cfg, nil)
	if err := sim.Run(cmd.Context()); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	records := sim.GetRecords()
	summary := stats.Summarize(records)
	chartGen := chart.NewGenerator()

	fmt.Fprintln(out, chartGen.GenerateResultsTable(records))
	fmt.Fprintln(out, chartGen.GenerateStatistics(summary))

	if snapshots := sim.GetSnapshots(); len(snapshots) > 0 {
		fmt.Fprintln(out, chartGen.GenerateQueueChart(snapshots, cfg.NumServers))
	}

	if opts.showEventSummary {
		fmt.Fprintln(out, chartGen.GenerateEventSummary(sim.GetEventCounts(), len(sim.GetPending())))
	}

	// File output failures are reported, never fatal
	outputWarnings := writeOutputs(cmd.Context(), out, cfg.Output, records, summary)

	fmt.Fprintln(out, chartGen.GenerateWarnings(sim.GetWarnings(), outputWarnings...))

	if opts.showTimeline {
		fmt.Fprintln(out, chartGen.GenerateDetailedTimeline(sim.GetEvents(), opts.timelineLimit))
	}

	fmt.Fprintln(out, "Simulation complete.")
	return nil
}

// writeOutputs writes the plot data, graph and CSV report, returning one
// message per failed step.
func writeOutputs(ctx context.Context, out io.Writer, output config.Output, records []simulation.ServiceRecord, summary stats.Summary) []string {
	var warnings []string
	fail := func(err error) {
		logrus.Warnf("%v", err)
		warnings = append(warnings, err.Error())
	}

	dataWritten := false
	if err := report.WritePlotDataFile(output.DataFile, records); err != nil {
		fail(err)
	} else {
		dataWritten = true
		fmt.Fprintf(out, "Service times written to %s\n", output.DataFile)
	}

	renderer, err := plot.NewRenderer(output)
	switch {
	case err != nil:
		fail(err)
	case renderer == nil:
	case output.PlotBackend == config.PlotBackendGnuplot && !dataWritten:
		fail(fmt.Errorf("skipping gnuplot: %s was not written", output.DataFile))
	default:
		if err := renderer.Render(ctx, records); err != nil {
			fail(err)
		} else {
			fmt.Fprintf(out, "Graph generated as %s\n", output.PlotFile)
		}
	}

	if err := report.WriteCSVFile(output.CSVFile, records, summary); err != nil {
		fail(err)
	} else {
		fmt.Fprintf(out, "Results saved to %s\n", output.CSVFile)
	}

	return warnings
}
