package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sherine-k/queuesim/pkg/simulation"
)

// WritePlotData writes one "id serviceTime" line per record
func WritePlotData(w io.Writer, records []simulation.ServiceRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%d %s\n", r.ID, strconv.FormatFloat(r.ServiceTime, 'g', -1, 64)); err != nil {
			return fmt.Errorf("failed to write plot data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write plot data: %w", err)
	}
	return nil
}

// WritePlotDataFile writes the plot data file to path
func WritePlotDataFile(path string, records []simulation.ServiceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}

	if err := WritePlotData(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
