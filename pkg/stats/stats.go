// Package stats reduces a sequence of finalized service records to the
// summary statistics shown in the report.
package stats

import (
	"errors"
	"sort"

	"github.com/sherine-k/queuesim/pkg/simulation"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when a statistic is requested over no records
var ErrNoData = errors.New("no service records")

// Summary holds the service time statistics of one run. When Empty is set
// every other field is zero.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Mode   float64
	Empty  bool
}

// Summarize computes all statistics, returning the empty sentinel instead
// of an error when there are no records.
func Summarize(records []simulation.ServiceRecord) Summary {
	if len(records) == 0 {
		return Summary{Empty: true}
	}

	// Errors are impossible past the length check
	mean, _ := Mean(records)
	median, _ := Median(records)
	mode, _ := Mode(records)

	return Summary{
		Count:  len(records),
		Mean:   mean,
		Median: median,
		Mode:   mode,
	}
}

// Mean returns the arithmetic mean of the service times
func Mean(records []simulation.ServiceRecord) (float64, error) {
	if len(records) == 0 {
		return 0, ErrNoData
	}

	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.ServiceTime
	}
	return stat.Mean(values, nil), nil
}

// Median returns the middle service time, or the average of the two middle
// values for an even count.
func Median(records []simulation.ServiceRecord) (float64, error) {
	n := len(records)
	if n == 0 {
		return 0, ErrNoData
	}

	values := serviceTimes(records)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2.0, nil
	}
	return values[n/2], nil
}

// Mode returns the most frequent service time. Among values tied for the
// highest count the smallest wins.
func Mode(records []simulation.ServiceRecord) (float64, error) {
	if len(records) == 0 {
		return 0, ErrNoData
	}

	values := serviceTimes(records)

	mode := 0.0
	maxFrequency := 0
	for i := 0; i < len(values); {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		// Strictly greater keeps the earlier, smaller value on a tie
		if j-i > maxFrequency {
			maxFrequency = j - i
			mode = values[i]
		}
		i = j
	}
	return mode, nil
}

// serviceTimes returns a sorted copy of the service times
func serviceTimes(records []simulation.ServiceRecord) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.ServiceTime
	}
	sort.Float64s(values)
	return values
}
