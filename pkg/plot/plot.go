// Package plot produces the service time graph of a run.
package plot

import (
	"context"
	"fmt"

	"github.com/sherine-k/queuesim/pkg/config"
	"github.com/sherine-k/queuesim/pkg/simulation"
)

const (
	Title  = "Customer Service Times"
	XLabel = "Customer ID"
	YLabel = "Service Time"
)

// Renderer draws the service time of every record against its id
type Renderer interface {
	Render(ctx context.Context, records []simulation.ServiceRecord) error
}

// NewRenderer returns the renderer selected by the output configuration,
// or nil when plotting is disabled.
func NewRenderer(out config.Output) (Renderer, error) {
	switch out.PlotBackend {
	case config.PlotBackendGonum:
		return NewGonumRenderer(out.PlotFile), nil
	case config.PlotBackendGnuplot:
		return NewGnuplotRenderer(out.DataFile, out.ScriptFile, out.PlotFile), nil
	case config.PlotBackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown plot backend %q", out.PlotBackend)
	}
}
