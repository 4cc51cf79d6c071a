package service

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
)

// GewekeBound is the |z| above which a Geweke score suggests the trace has not converged.
const GewekeBound = 2.0

var (
	referenceColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	referenceDash  = []vg.Length{vg.Points(4), vg.Points(3)}
)

type Plot struct {
	OutputDir string
	Format    string
	Width     vg.Length
	Height    vg.Length
}

func NewPlot(config *appconfig.Config) *Plot {
	return &Plot{
		OutputDir: config.OutputDir,
		Format:    config.PlotFormat,
		Width:     config.PlotWidth.Length(),
		Height:    config.PlotHeight.Length(),
	}
}

// Path returns the file the artifact called name is saved to.
func (s *Plot) Path(name string) string {
	return filepath.Join(s.OutputDir, name+"."+s.Format)
}

// PlotTrace renders row against its sample index, with the row mean as a dashed reference line.
func (s *Plot) PlotTrace(name string, row []float64) (string, error) {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(row))
	for i, v := range row {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return "", diagerr.ErrPlotFailed.Msg("failed to build trace line of %s", name).Wrap(err)
	}

	mean := stat.Mean(row, nil)
	meanLine := plotter.NewFunction(func(float64) float64 { return mean })
	meanLine.Color = referenceColor
	meanLine.Dashes = referenceDash

	p.Add(line, meanLine)

	path, err := s.save(p, name)
	if err != nil {
		return "", diagerr.ErrPlotFailed.Msg("failed to save trace plot of %s", name).Wrap(err)
	}
	return path, nil
}

// PlotGeweke renders the z-scores against their start index, with dashed ±GewekeBound reference lines.
// Failures are reported as diagerr.ErrDiagnosticComputationFailed.
func (s *Plot) PlotGeweke(name string, scores model.GewekeScores) (string, error) {
	if len(scores) == 0 {
		return "", diagerr.ErrDiagnosticComputationFailed.Msg("no geweke scores to plot for %s", name)
	}

	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "First iteration"
	p.Y.Label.Text = "Z-score for Geweke test"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(scores))
	for i, score := range scores {
		xys[i].X = float64(score.Start)
		xys[i].Y = score.Z
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return "", diagerr.ErrDiagnosticComputationFailed.Msg("failed to build geweke scatter of %s", name).Wrap(err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	upper := plotter.NewFunction(func(float64) float64 { return GewekeBound })
	lower := plotter.NewFunction(func(float64) float64 { return -GewekeBound })
	for _, bound := range []*plotter.Function{upper, lower} {
		bound.Color = referenceColor
		bound.Dashes = referenceDash
	}

	p.Add(scatter, upper, lower)

	// keep both reference lines in view even when every score is well inside them
	margin := GewekeBound * 1.25
	p.Y.Min = math.Min(p.Y.Min, -margin)
	p.Y.Max = math.Max(p.Y.Max, margin)

	path, err := s.save(p, name)
	if err != nil {
		return "", diagerr.ErrDiagnosticComputationFailed.Msg("failed to save geweke plot of %s", name).Wrap(err)
	}
	return path, nil
}

func (s *Plot) save(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}
	path := s.Path(name)
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return "", err
	}
	return path, nil
}
