// Package report writes and reads the flat-file outputs of a run.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sherine-k/queuesim/pkg/simulation"
	"github.com/sherine-k/queuesim/pkg/stats"
)

const (
	csvTitle      = "Customer Queue Simulation Results"
	statsTitle    = "Statistics"
	meanLabel     = "Mean Service Time"
	medianLabel   = "Median Service Time"
	modeLabel     = "Mode Service Time"
	decimalPlaces = 2
)

var csvHeader = []string{"ID", "Arrival Time", "Service Time", "Departure Time"}

// ErrMalformedReport is returned by ReadCSV for input it cannot parse
var ErrMalformedReport = errors.New("malformed report")

// FormatFloat renders a real-valued field the way every output does
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', decimalPlaces, 64)
}

// WriteCSV writes the record table followed by the statistics block
func WriteCSV(w io.Writer, records []simulation.ServiceRecord, summary stats.Summary) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{csvTitle}, csvHeader}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			FormatFloat(r.ArrivalTime),
			FormatFloat(r.ServiceTime),
			FormatFloat(r.DepartureTime),
		})
	}
	rows = append(rows,
		[]string{""},
		[]string{statsTitle},
		[]string{meanLabel, FormatFloat(summary.Mean)},
		[]string{medianLabel, FormatFloat(summary.Median)},
		[]string{modeLabel, FormatFloat(summary.Mode)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the CSV report to path
func WriteCSVFile(path string, records []simulation.ServiceRecord, summary stats.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}

	if err := WriteCSV(f, records, summary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a report produced by WriteCSV. Values come back at the
// two-decimal precision they were written with.
func ReadCSV(r io.Reader) ([]simulation.ServiceRecord, stats.Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, stats.Summary{}, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(rows) < 2 || rows[0][0] != csvTitle || len(rows[1]) != len(csvHeader) {
		return nil, stats.Summary{}, fmt.Errorf("%w: missing title or header", ErrMalformedReport)
	}

	records := []simulation.ServiceRecord{}
	i := 2
	for ; i < len(rows) && rows[i][0] != statsTitle; i++ {
		rec, err := parseRecord(rows[i])
		if err != nil {
			return nil, stats.Summary{}, fmt.Errorf("%w: line %d: %v", ErrMalformedReport, i+1, err)
		}
		records = append(records, rec)
	}

	summary := stats.Summary{Count: len(records), Empty: len(records) == 0}
	for i++; i < len(rows); i++ {
		if len(rows[i]) != 2 {
			return nil, stats.Summary{}, fmt.Errorf("%w: statistics line %q", ErrMalformedReport, rows[i])
		}
		v, err := strconv.ParseFloat(rows[i][1], 64)
		if err != nil {
			return nil, stats.Summary{}, fmt.Errorf("%w: %s: %v", ErrMalformedReport, rows[i][0], err)
		}
		switch rows[i][0] {
		case meanLabel:
			summary.Mean = v
		case medianLabel:
			summary.Median = v
		case modeLabel:
			summary.Mode = v
		default:
			return nil, stats.Summary{}, fmt.Errorf("%w: unknown statistic %q", ErrMalformedReport, rows[i][0])
		}
	}

	return records, summary, nil
}

func parseRecord(row []string) (simulation.ServiceRecord, error) {
	if len(row) != len(csvHeader) {
		return simulation.ServiceRecord{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(row))
	}

	id, err := strconv.Atoi(row[0])
	if err != nil {
		return simulation.ServiceRecord{}, fmt.Errorf("id: %w", err)
	}

	var values [3]float64
	for k := range values {
		if values[k], err = strconv.ParseFloat(row[k+1], 64); err != nil {
			return simulation.ServiceRecord{}, fmt.Errorf("%s: %w", csvHeader[k+1], err)
		}
	}

	return simulation.ServiceRecord{
		ID:            id,
		ArrivalTime:   values[0],
		ServiceTime:   values[1],
		DepartureTime: values[2],
	}, nil
}
