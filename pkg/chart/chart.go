package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/sherine-k/queuesim/pkg/report"
	"github.com/sherine-k/queuesim/pkg/simulation"
	"github.com/sherine-k/queuesim/pkg/stats"
)

const (
	chartWidth  = 80
	chartHeight = 20
)

var (
	heading = color.New(color.Bold, color.FgCyan).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

// Generator generates console tables and ASCII charts
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

func (g *Generator) title(sb *strings.Builder, text string) {
	sb.WriteString("\n")
	sb.WriteString(heading(text))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")
}

// GenerateResultsTable renders one row per served customer
func (g *Generator) GenerateResultsTable(records []simulation.ServiceRecord) string {
	var sb strings.Builder

	g.title(&sb, "Simulation Results")

	border := "+-----+--------------+--------------+-----------------+\n"
	sb.WriteString(border)
	sb.WriteString("| ID  | Arrival Time | Service Time | Departure Time  |\n")
	sb.WriteString(border)

	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %3d | %12s | %12s | %15s |\n",
			r.ID,
			report.FormatFloat(r.ArrivalTime),
			report.FormatFloat(r.ServiceTime),
			report.FormatFloat(r.DepartureTime)))
	}

	sb.WriteString(border)
	if len(records) == 0 {
		sb.WriteString("No customers were served.\n")
	}

	return sb.String()
}

// GenerateStatistics renders the service time statistics
func (g *Generator) GenerateStatistics(summary stats.Summary) string {
	var sb strings.Builder

	g.title(&sb, "Statistics")

	if summary.Empty {
		sb.WriteString("No service records, statistics are not available.\n")
		return sb.String()
	}

	border := "+----------------------+------------+\n"
	sb.WriteString(border)
	sb.WriteString(fmt.Sprintf("| %-20s | %10d |\n", "Customers Served", summary.Count))
	sb.WriteString(fmt.Sprintf("| %-20s | %10s |\n", "Mean Service Time", report.FormatFloat(summary.Mean)))
	sb.WriteString(fmt.Sprintf("| %-20s | %10s |\n", "Median Service Time", report.FormatFloat(summary.Median)))
	sb.WriteString(fmt.Sprintf("| %-20s | %10s |\n", "Mode Service Time", report.FormatFloat(summary.Mode)))
	sb.WriteString(border)

	return sb.String()
}

// GenerateQueueChart generates an ASCII chart of busy servers and waiting
// customers at each snapshot. Sections taller than the chart are scaled.
func (g *Generator) GenerateQueueChart(snapshots []simulation.Snapshot, numServers int) string {
	if len(snapshots) == 0 {
		return "No queue snapshots to display"
	}

	var sb strings.Builder
	g.title(&sb, "Queue Usage Over Time")

	maxPending := 0
	for _, s := range snapshots {
		if s.Pending > maxPending {
			maxPending = s.Pending
		}
	}

	serverRows, serverStep := scaleRows(numServers, g.height/2)
	waitingRows, waitingStep := scaleRows(maxPending, g.height/2)
	plotWidth := g.width - 6

	columns := len(snapshots)
	if columns > plotWidth {
		columns = plotWidth
	}
	column := func(x int) simulation.Snapshot {
		if columns <= 1 {
			return snapshots[0]
		}
		return snapshots[x*(len(snapshots)-1)/(columns-1)]
	}

	// Waiting customers above the separator
	for row := waitingRows; row >= 1; row-- {
		sb.WriteString(fmt.Sprintf("%4d |", row*waitingStep))
		for x := 0; x < columns; x++ {
			if column(x).Pending >= (row-1)*waitingStep+1 {
				sb.WriteString("*")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	if waitingRows > 0 {
		sb.WriteString("     ")
		sb.WriteString(strings.Repeat("-", plotWidth))
		sb.WriteString("\n")
	}

	// Busy servers below it
	for row := serverRows; row >= 1; row-- {
		sb.WriteString(fmt.Sprintf("%4d |", row*serverStep))
		for x := 0; x < columns; x++ {
			if column(x).Served >= (row-1)*serverStep+1 {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString("     +")
	sb.WriteString(strings.Repeat("-", plotWidth))
	sb.WriteString("\n")
	start := report.FormatFloat(snapshots[0].Clock)
	end := report.FormatFloat(snapshots[len(snapshots)-1].Clock)
	gap := columns - len(start) - len(end)
	if gap < 1 {
		gap = 1
	}
	sb.WriteString("      ")
	sb.WriteString(start)
	sb.WriteString(strings.Repeat(" ", gap))
	sb.WriteString(end)
	sb.WriteString("\n")

	// Legend
	sb.WriteString("\n")
	sb.WriteString("Legend:\n")
	sb.WriteString(fmt.Sprintf("  Server rows (1-%d):\n", numServers))
	sb.WriteString("    █ - Server taken\n")
	if waitingRows > 0 {
		sb.WriteString("  Waiting rows:\n")
		sb.WriteString("    * - Customers waiting for a server\n")
	}
	if serverStep > 1 || waitingStep > 1 {
		sb.WriteString(fmt.Sprintf("  One row stands for %d servers and %d waiting customers\n", serverStep, waitingStep))
	}
	sb.WriteString("\n")

	return sb.String()
}

// scaleRows fits n units into at most limit rows
func scaleRows(n, limit int) (rows, step int) {
	if n <= 0 {
		return 0, 1
	}
	if limit < 1 {
		limit = 1
	}
	step = int(math.Ceil(float64(n) / float64(limit)))
	rows = int(math.Ceil(float64(n) / float64(step)))
	return rows, step
}

// GenerateEventSummary generates a summary of the per-type event counts
func (g *Generator) GenerateEventSummary(eventsByType map[simulation.EventType]int, pending int) string {
	var sb strings.Builder

	g.title(&sb, "Event Summary")

	total := 0
	for _, n := range eventsByType {
		total += n
	}

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", total))
	sb.WriteString(fmt.Sprintf("  - Customers Arrived: %d\n", eventsByType[simulation.EventTypeArrival]))
	sb.WriteString(fmt.Sprintf("  - Services Started: %d\n", eventsByType[simulation.EventTypeServiceStarted]))
	sb.WriteString(fmt.Sprintf("  - Servers Exhausted: %d\n", eventsByType[simulation.EventTypeServersExhausted]))
	sb.WriteString(fmt.Sprintf("  - Customers Still Waiting: %d\n", pending))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateWarnings generates a list of warnings. Extra lines, such as
// failed file writes, are listed after the simulation warnings.
func (g *Generator) GenerateWarnings(warnings []simulation.Event, extra ...string) string {
	var sb strings.Builder

	g.title(&sb, "Warnings")

	if len(warnings) == 0 && len(extra) == 0 {
		sb.WriteString("No warnings!\n")
		return sb.String()
	}

	for _, warning := range warnings {
		sb.WriteString(warn(fmt.Sprintf("[t=%10s] %s", report.FormatFloat(warning.Clock), warning.Message)))
		sb.WriteString("\n")
	}
	for _, line := range extra {
		sb.WriteString(warn(fmt.Sprintf("[output    ] %s", line)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total Warnings: %d\n", len(warnings)+len(extra)))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.Event, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(heading("Detailed Timeline"))
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]

		typeIcon := " "
		switch event.Type {
		case simulation.EventTypeArrival:
			typeIcon = "+"
		case simulation.EventTypeServiceStarted:
			typeIcon = ">"
		case simulation.EventTypeServersExhausted:
			typeIcon = "!"
		case simulation.EventTypeStranded:
			typeIcon = "W"
		}

		sb.WriteString(fmt.Sprintf("[t=%10s] %s [free=%d waiting=%d] %s\n",
			report.FormatFloat(event.Clock),
			typeIcon,
			event.FreeServers,
			event.Pending,
			event.Message))
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}
