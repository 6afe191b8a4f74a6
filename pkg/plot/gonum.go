package plot

import (
	"context"
	"fmt"

	"github.com/sherine-k/queuesim/pkg/simulation"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GonumRenderer renders the graph in-process. The image format follows the
// extension of Path.
type GonumRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewGonumRenderer creates a renderer writing an 8x6 inch image to path
func NewGonumRenderer(path string) *GonumRenderer {
	return &GonumRenderer{
		Path:   path,
		Width:  8 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// Render draws the records as a line with points and saves the image
func (g *GonumRenderer) Render(ctx context.Context, records []simulation.ServiceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := gonumplot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Add(plotter.NewGrid())

	if len(records) > 0 {
		pts := make(plotter.XYs, len(records))
		for i, r := range records {
			pts[i].X = float64(r.ID)
			pts[i].Y = r.ServiceTime
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("failed to build plot: %w", err)
		}
		p.Add(line, points)
		p.Legend.Add(YLabel, line, points)
	}

	if err := p.Save(g.Width, g.Height, g.Path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", g.Path, err)
	}
	return nil
}
