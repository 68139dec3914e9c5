// Package gnuplot renders case-curve and R_t charts by writing data and
// script files and shelling out to gnuplot.
package gnuplot

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/epitrack/rt-cli/internal/model"
)

// Plotter renders charts into an output directory.
type Plotter struct {
	Binary   string // gnuplot executable, default "gnuplot"
	Terminal string // gnuplot terminal, e.g. "pngcairo size 1200,600"
	Dir      string // output directory for rendered images
}

const casesScript = `set terminal {{.Terminal}}
set output '{{.Output}}'
set title 'Daily reported cases'
set xdata time
set timefmt '%Y-%m-%d'
set format x '%b %d'
set xlabel 'Date'
set ylabel 'Cases'
set grid ytics
set style fill solid 0.6
set boxwidth 0.7 relative
plot '{{.Data}}' using 1:2 with boxes lc rgb '#4477aa' notitle
`

// The third data column flags boundary estimates; the ternaries split the
// curve so the unreliable edges render dashed.
const estimatesScript = `set terminal {{.Terminal}}
set output '{{.Output}}'
set title 'Effective reproductive number (Wallinga-Teunis)'
set xdata time
set timefmt '%Y-%m-%d'
set format x '%b %d'
set xlabel 'Date'
set ylabel 'R_t'
set grid ytics
plot '{{.Data}}' using 1:($3 == 0 ? $2 : 1/0) with linespoints lw 2 lc rgb '#228833' title 'R_t', \
     '{{.Data}}' using 1:($3 == 1 ? $2 : 1/0) with linespoints lw 2 dashtype 2 lc rgb '#cc3311' title 'R_t (boundary, unreliable)', \
     1 with lines dashtype 3 lc rgb '#888888' title 'R = 1'
`

type scriptData struct {
	Terminal string
	Output   string
	Data     string
}

// PlotCases renders the daily case curve and returns the image path.
func (p Plotter) PlotCases(series model.CaseSeries, name string) (string, error) {
	return p.render(casesScript, name, func(w io.Writer) error {
		return writeCaseData(w, series)
	})
}

// PlotEstimates renders the R_t curve, drawing the unreliable boundary
// windows distinctly, and returns the image path.
func (p Plotter) PlotEstimates(estimates model.EstimateSeries, name string) (string, error) {
	return p.render(estimatesScript, name, func(w io.Writer) error {
		return writeEstimateData(w, estimates)
	})
}

func (p Plotter) render(script, name string, writeData func(io.Writer) error) (string, error) {
	if p.Binary == "" {
		p.Binary = "gnuplot"
	}
	if p.Terminal == "" {
		p.Terminal = "pngcairo size 1200,600"
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", eris.Wrap(err, "gnuplot: create output dir")
	}

	dataFile, err := os.CreateTemp("", "rt-cli.data.")
	if err != nil {
		return "", eris.Wrap(err, "gnuplot: create data file")
	}
	defer os.Remove(dataFile.Name()) //nolint:errcheck

	werr := writeData(dataFile)
	cerr := dataFile.Close()
	if werr != nil {
		return "", eris.Wrap(werr, "gnuplot: write data")
	}
	if cerr != nil {
		return "", eris.Wrap(cerr, "gnuplot: close data file")
	}

	output := filepath.Join(p.Dir, name)
	scriptText, err := buildScript(script, scriptData{
		Terminal: p.Terminal,
		Output:   output,
		Data:     dataFile.Name(),
	})
	if err != nil {
		return "", err
	}

	scriptFile, err := os.CreateTemp("", "rt-cli.gnuplot.")
	if err != nil {
		return "", eris.Wrap(err, "gnuplot: create script file")
	}
	defer os.Remove(scriptFile.Name()) //nolint:errcheck

	if _, err := io.WriteString(scriptFile, scriptText); err != nil {
		scriptFile.Close()
		return "", eris.Wrap(err, "gnuplot: write script")
	}
	if err := scriptFile.Close(); err != nil {
		return "", eris.Wrap(err, "gnuplot: close script file")
	}

	if out, err := exec.Command(p.Binary, scriptFile.Name()).CombinedOutput(); err != nil {
		return "", eris.Wrapf(err, "gnuplot: run %s: %s", p.Binary, strings.TrimSpace(string(out)))
	}

	zap.L().Info("gnuplot: chart rendered", zap.String("path", output))
	return output, nil
}

// buildScript executes the script template. Split out so scripts are
// testable without a gnuplot binary.
func buildScript(tmpl string, data scriptData) (string, error) {
	var b strings.Builder
	t, err := template.New("script").Parse(tmpl)
	if err != nil {
		return "", eris.Wrap(err, "gnuplot: parse template")
	}
	if err := t.Execute(&b, data); err != nil {
		return "", eris.Wrap(err, "gnuplot: execute template")
	}
	return b.String(), nil
}

func writeCaseData(w io.Writer, series model.CaseSeries) error {
	for _, p := range series {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", p.Date.Format(model.DateLayout), p.Cases); err != nil {
			return err
		}
	}
	return nil
}

func writeEstimateData(w io.Writer, estimates model.EstimateSeries) error {
	for _, p := range estimates {
		flag := 0
		if p.Unreliable {
			flag = 1
		}
		if _, err := fmt.Fprintf(w, "%s\t%.6f\t%d\n", p.Date.Format(model.DateLayout), p.R, flag); err != nil {
			return err
		}
	}
	return nil
}
