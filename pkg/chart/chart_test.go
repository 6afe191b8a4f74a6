package chart

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sherine-k/queuesim/pkg/simulation"
	"github.com/sherine-k/queuesim/pkg/stats"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var sample = []simulation.ServiceRecord{
	{ID: 0, ArrivalTime: 1, ServiceTime: 2.5, DepartureTime: 3.5},
	{ID: 1, ArrivalTime: 1.234, ServiceTime: 0.5, DepartureTime: 1.734},
}

func TestGenerateResultsTable(t *testing.T) {
	out := NewGenerator().GenerateResultsTable(sample)

	assert.Contains(t, out, "| ID  | Arrival Time | Service Time | Departure Time  |")
	assert.Contains(t, out, "|   0 |         1.00 |         2.50 |            3.50 |\n")
	assert.Contains(t, out, "|   1 |         1.23 |         0.50 |            1.73 |\n")
	assert.NotContains(t, out, "No customers were served.")

	empty := NewGenerator().GenerateResultsTable(nil)
	assert.Contains(t, empty, "No customers were served.")
}

func TestGenerateStatistics(t *testing.T) {
	out := NewGenerator().GenerateStatistics(stats.Summarize(sample))
	assert.Contains(t, out, "| Customers Served     |          2 |")
	assert.Contains(t, out, "| Mean Service Time    |       1.50 |")
	assert.Contains(t, out, "| Mode Service Time    |       0.50 |")

	empty := NewGenerator().GenerateStatistics(stats.Summarize(nil))
	assert.Contains(t, empty, "statistics are not available")
}

func TestGenerateQueueChart(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "No queue snapshots to display", g.GenerateQueueChart(nil, 2))

	snapshots := []simulation.Snapshot{
		{Clock: 0, FreeServers: 2},
		{Clock: 1, Served: 1, FreeServers: 1},
		{Clock: 2, Served: 2, Pending: 1},
		{Clock: 3, Served: 2, Pending: 3},
	}
	out := g.GenerateQueueChart(snapshots, 2)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines, "   3 |   *")
	assert.Contains(t, lines, "   1 |  **")
	assert.Contains(t, lines, "   2 |  ██")
	assert.Contains(t, lines, "   1 | ███")
	assert.Contains(t, out, "* - Customers waiting for a server")
	assert.NotContains(t, out, "One row stands for")
}

func TestGenerateQueueChartScales(t *testing.T) {
	snapshots := []simulation.Snapshot{
		{Clock: 0, FreeServers: 50},
		{Clock: 10, Served: 50, Pending: 500},
	}
	out := NewGenerator().GenerateQueueChart(snapshots, 50)

	assert.Contains(t, out, "One row stands for 5 servers and 50 waiting customers")
	assert.Contains(t, out, " 500 |")
	assert.Contains(t, out, "  50 |")
}

func TestScaleRows(t *testing.T) {
	rows, step := scaleRows(0, 10)
	assert.Equal(t, 0, rows)
	assert.Equal(t, 1, step)

	rows, step = scaleRows(7, 10)
	assert.Equal(t, 7, rows)
	assert.Equal(t, 1, step)

	rows, step = scaleRows(25, 10)
	assert.Equal(t, 9, rows)
	assert.Equal(t, 3, step)
}

func TestGenerateEventSummary(t *testing.T) {
	counts := map[simulation.EventType]int{
		simulation.EventTypeArrival:          2,
		simulation.EventTypeServiceStarted:   1,
		simulation.EventTypeServersExhausted: 1,
	}
	out := NewGenerator().GenerateEventSummary(counts, 1)

	assert.Contains(t, out, "Total Events: 4\n")
	assert.Contains(t, out, "  - Customers Arrived: 2\n")
	assert.Contains(t, out, "  - Services Started: 1\n")
	assert.Contains(t, out, "  - Servers Exhausted: 1\n")
	assert.Contains(t, out, "  - Customers Still Waiting: 1\n")
}

func TestGenerateWarnings(t *testing.T) {
	g := NewGenerator()
	assert.Contains(t, g.GenerateWarnings(nil), "No warnings!")

	out := g.GenerateWarnings([]simulation.Event{
		{Clock: 12.5, Message: "All 2 servers taken", IsWarning: true},
	}, "failed to open out.csv for writing")

	assert.Contains(t, out, "[t=     12.50] All 2 servers taken\n")
	assert.Contains(t, out, "[output    ] failed to open out.csv for writing\n")
	assert.Contains(t, out, "Total Warnings: 2\n")
}

func TestGenerateDetailedTimeline(t *testing.T) {
	events := []simulation.Event{
		{Clock: 1, Type: simulation.EventTypeArrival, FreeServers: 1, Pending: 1, Message: "Customer 0 arrived"},
		{Clock: 1, Type: simulation.EventTypeServiceStarted, Message: "Customer 0 started service"},
		{Clock: 2, Type: simulation.EventTypeArrival, Pending: 1, Message: "Customer 1 arrived"},
	}

	out := NewGenerator().GenerateDetailedTimeline(events, 2)
	assert.Contains(t, out, "(showing first 2 events)")
	assert.Contains(t, out, "[t=      1.00] + [free=1 waiting=1] Customer 0 arrived\n")
	assert.Contains(t, out, "[t=      1.00] > [free=0 waiting=0] Customer 0 started service\n")
	assert.NotContains(t, out, "Customer 1 arrived")
	assert.Contains(t, out, "... and 1 more events")

	all := NewGenerator().GenerateDetailedTimeline(events, 0)
	assert.Contains(t, all, "Customer 1 arrived")
}
