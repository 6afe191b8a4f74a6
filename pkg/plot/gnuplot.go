package plot

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/sherine-k/queuesim/pkg/simulation"
)

const gnuplotTemplate = `set terminal pngcairo size 800,600 enhanced font 'Verdana,10'
set output {{quote .OutputFile}}
set title "{{.Title}}"
set xlabel "{{.XLabel}}"
set ylabel "{{.YLabel}}"
plot {{quote .DataFile}} using 1:2 with linespoints title '{{.YLabel}}'
`

var scriptTemplate = template.Must(template.New("gnuplot").
	Funcs(template.FuncMap{"quote": quote}).
	Parse(gnuplotTemplate))

// quote wraps s in a gnuplot single-quoted string, where '' stands for '
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// GnuplotRenderer writes a gnuplot script and runs gnuplot on it. The data
// file must already exist; report.WritePlotDataFile produces it.
type GnuplotRenderer struct {
	DataFile   string
	ScriptFile string
	OutputFile string
	Command    string
}

// NewGnuplotRenderer creates a renderer invoking the gnuplot binary on PATH
func NewGnuplotRenderer(dataFile, scriptFile, outputFile string) *GnuplotRenderer {
	return &GnuplotRenderer{
		DataFile:   dataFile,
		ScriptFile: scriptFile,
		OutputFile: outputFile,
		Command:    "gnuplot",
	}
}

// WriteScript writes the gnuplot commands to w
func (g *GnuplotRenderer) WriteScript(w io.Writer) error {
	return scriptTemplate.Execute(w, map[string]string{
		"OutputFile": g.OutputFile,
		"DataFile":   g.DataFile,
		"Title":      Title,
		"XLabel":     XLabel,
		"YLabel":     YLabel,
	})
}

// Render writes the script file and runs gnuplot as a subprocess
func (g *GnuplotRenderer) Render(ctx context.Context, _ []simulation.ServiceRecord) error {
	f, err := os.Create(g.ScriptFile)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", g.ScriptFile, err)
	}
	if err := g.WriteScript(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write gnuplot script: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write gnuplot script: %w", err)
	}

	out, err := exec.CommandContext(ctx, g.Command, g.ScriptFile).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", g.Command, err, out)
	}
	return nil
}
