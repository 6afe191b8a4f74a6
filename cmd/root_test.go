package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sherine-k/queuesim/pkg/config"
	"github.com/sherine-k/queuesim/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh root command writing its files into dir
func execute(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--no-color",
		"--plot-backend", "none",
		"--csv-file", filepath.Join(dir, "results.csv"),
		"--data-file", filepath.Join(dir, "service_times.dat"),
		"--plot-file", filepath.Join(dir, "graph.png"),
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func readReport(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, _, err := report.ReadCSV(f)
	require.NoError(t, err)
	return len(records)
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "", "--arrival-rate", "1", "--service-rate", "2", "--servers", "3", "--seed", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "  - Servers: 3\n")
	assert.Contains(t, out, "Simulation Results")
	assert.Contains(t, out, "Mean Service Time")
	assert.Contains(t, out, "Customers Arrived:")
	assert.Contains(t, out, "Results saved to "+filepath.Join(dir, "results.csv"))
	assert.Contains(t, out, "Simulation complete.")

	assert.Equal(t, 3, readReport(t, filepath.Join(dir, "results.csv")))

	data, err := os.ReadFile(filepath.Join(dir, "service_times.dat"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)
}

func TestRunIsDeterministicWithSeed(t *testing.T) {
	read := func() []byte {
		dir := t.TempDir()
		_, err := execute(t, dir, "", "-a", "3", "-m", "1", "-n", "4", "--seed", "21")
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "results.csv"))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, read(), read())
}

func TestRunRejectsInvalidParameters(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "--arrival-rate", "0", "--service-rate", "2", "--servers", "1")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, t.TempDir(), "", "--service-rate", "2", "--servers", "1")
	assert.ErrorIs(t, err, config.ErrInvalidConfig, "arrival rate is required")

	_, err = execute(t, t.TempDir(), "", "--arrival-rate", "Inf", "--service-rate", "2", "--servers", "1")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, t.TempDir(), "", "-a", "1", "-m", "1", "-n", "1", "--horizon", "+Inf")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunResetsGlobalOutputSettings(t *testing.T) {
	level, noColor, detected := logrus.GetLevel(), color.NoColor, noColorDefault
	t.Cleanup(func() {
		logrus.SetLevel(level)
		color.NoColor = noColor
		noColorDefault = detected
	})
	noColorDefault = false

	_, err := execute(t, t.TempDir(), "", "-a", "1", "-m", "1", "-n", "1", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.True(t, color.NoColor)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-a", "1", "-m", "1", "-n", "1", "--plot-backend", "none",
		"--csv-file", filepath.Join(t.TempDir(), "results.csv"),
		"--data-file", filepath.Join(t.TempDir(), "service_times.dat")})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.False(t, color.NoColor)
}

func TestRunWithoutServers(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUEUESIM_SERVERS", "0")

	out, err := execute(t, dir, "", "-a", "1", "-m", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "No customers were served.")
	assert.Contains(t, out, "statistics are not available")
	assert.Contains(t, out, "No servers configured")
	assert.Equal(t, 0, readReport(t, filepath.Join(dir, "results.csv")))
}

func TestRunSurvivesOutputFailure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	out, err := execute(t, dir, "", "-a", "1", "-m", "1", "-n", "2",
		"--csv-file", filepath.Join(missing, "results.csv"),
		"--plot-backend", "gnuplot",
		"--data-file", filepath.Join(missing, "service_times.dat"))
	require.NoError(t, err)

	assert.Contains(t, out, "Mean Service Time")
	assert.Contains(t, out, "[output    ] failed to open")
	assert.Contains(t, out, "skipping gnuplot")
	assert.Contains(t, out, "Simulation complete.")
}

func TestRunInteractive(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "2\n3\n1\n", "--interactive", "--seed", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter arrival rate (customers per unit time): ")
	assert.Contains(t, out, "Enter number of servers: ")
	assert.Contains(t, out, "  - Arrival Rate: 2\n")
	assert.Equal(t, 1, readReport(t, filepath.Join(dir, "results.csv")))
}

func TestRunInteractiveBadInput(t *testing.T) {
	_, err := execute(t, t.TempDir(), "fast\n", "--interactive")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, t.TempDir(), "1\n", "--interactive")
	assert.ErrorContains(t, err, "unexpected EOF")
}

func TestRunFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queuesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
arrivalRate: 1
serviceRate: 1
numServers: 5
horizon: 100
seed: 8
snapshotSchedule: "*/10 * * * *"
`), 0o644))

	out, err := execute(t, dir, "", "--config", path, "--servers", "2", "--timeline", "--timeline-limit", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded configuration from "+path)
	assert.Contains(t, out, "  - Servers: 2\n", "flags win over the file")
	assert.Contains(t, out, "Queue Usage Over Time")
	assert.Contains(t, out, "(showing first 3 events)")
	assert.Equal(t, 2, readReport(t, filepath.Join(dir, "results.csv")))
}

func TestPromptParameters(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer
	require.NoError(t, promptParameters(strings.NewReader(" 1.5 \n0.5\n4\n"), &out, cfg))

	assert.Equal(t, 1.5, cfg.ArrivalRate)
	assert.Equal(t, 0.5, cfg.ServiceRate)
	assert.Equal(t, 4, cfg.NumServers)

	err := promptParameters(strings.NewReader("1\n1\nmany\n"), &out, config.Default())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
