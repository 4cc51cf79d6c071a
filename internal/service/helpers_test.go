package service

import (
	"testing"

	"gonum.org/v1/plot/vg"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/app/appcontext"
)

func newTestConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	dir := t.TempDir()
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			TraceDir:        dir,
			TraceFile:       "trace.json",
			OutputDir:       dir,
			GewekeFirst:     0.1,
			GewekeLast:      0.5,
			GewekeIntervals: 20,
			PlotFormat:      "png",
			PlotWidth:       appconfig.PlotLength(4 * vg.Inch),
			PlotHeight:      appconfig.PlotLength(3 * vg.Inch),
			SummaryJSON:     true,
		},
		AppContext: appcontext.Declare(appcontext.EnvTest),
	}
}

func linearRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = float64(i)
	}
	return row
}
