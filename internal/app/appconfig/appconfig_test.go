package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"exusiai.dev/tracediag/internal/app/appcontext"
)

func validSpec() ConfigSpec {
	return ConfigSpec{
		TraceFile:       "trace.json",
		GewekeFirst:     0.1,
		GewekeLast:      0.5,
		GewekeIntervals: 20,
		PlotFormat:      "png",
		PlotWidth:       PlotLength(6 * vg.Inch),
		PlotHeight:      PlotLength(4 * vg.Inch),
	}
}

func TestNewResolvesDirectories(t *testing.T) {
	conf, err := New(appcontext.Declare(appcontext.EnvTest), validSpec())
	require.NoError(t, err)

	assert.Equal(t, os.TempDir(), conf.TraceDir)
	assert.Equal(t, conf.TraceDir, conf.OutputDir)
	assert.Equal(t, filepath.Join(os.TempDir(), "trace.json"), conf.TracePath())
	assert.False(t, conf.ArchiveEnabled())

	spec := validSpec()
	spec.TraceDir = "/data/run"
	spec.OutputDir = "/data/plots"
	spec.ArchiveS3Bucket = "bucket"
	conf, err = New(appcontext.Declare(appcontext.EnvTest), spec)
	require.NoError(t, err)
	assert.Equal(t, "/data/plots", conf.OutputDir)
	assert.Equal(t, "/data/run/trace.json", conf.TracePath())
	assert.True(t, conf.ArchiveEnabled())
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	mutations := map[string]func(*ConfigSpec){
		"first out of range":  func(s *ConfigSpec) { s.GewekeFirst = 1.2 },
		"last zero":           func(s *ConfigSpec) { s.GewekeLast = 0 },
		"windows overlap":     func(s *ConfigSpec) { s.GewekeFirst, s.GewekeLast = 0.5, 0.5 },
		"too few intervals":   func(s *ConfigSpec) { s.GewekeIntervals = 1 },
		"unknown plot format": func(s *ConfigSpec) { s.PlotFormat = "bmp" },
		"non-positive width":  func(s *ConfigSpec) { s.PlotWidth = 0 },
		"non-positive height": func(s *ConfigSpec) { s.PlotHeight = -1 },
	}

	for name, mutate := range mutations {
		spec := validSpec()
		mutate(&spec)
		_, err := New(appcontext.Declare(appcontext.EnvTest), spec)
		assert.Error(t, err, name)
	}
}

func TestParseFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACEDIAG_TRACE_DIR", dir)
	t.Setenv("TRACEDIAG_PLOT_FORMAT", "svg")
	t.Setenv("TRACEDIAG_PLOT_WIDTH", "10cm")
	t.Setenv("TRACEDIAG_GEWEKE_INTERVALS", "10")

	conf, err := Parse(appcontext.Declare(appcontext.EnvTest))
	require.NoError(t, err)

	assert.Equal(t, dir, conf.TraceDir)
	assert.Equal(t, dir, conf.OutputDir)
	assert.Equal(t, "trace.json", conf.TraceFile)
	assert.Equal(t, "svg", conf.PlotFormat)
	assert.Equal(t, 10, conf.GewekeIntervals)
	assert.InDelta(t, float64(10*vg.Centimeter), float64(conf.PlotWidth.Length()), 1e-9)
	assert.InDelta(t, float64(4*vg.Inch), float64(conf.PlotHeight.Length()), 1e-9)
	assert.True(t, conf.SummaryJSON)
	assert.Equal(t, "tracediag/", conf.ArchiveS3Prefix)
}

func TestPlotLengthDecode(t *testing.T) {
	type testCase struct {
		value  string
		expect vg.Length
	}

	testCases := []testCase{
		{"6in", 6 * vg.Inch},
		{"6", 6 * vg.Inch},
		{" 15cm ", 15 * vg.Centimeter},
		{"120mm", 120 * vg.Millimeter},
		{"432pt", vg.Points(432)},
	}

	for _, tc := range testCases {
		var l PlotLength
		require.NoError(t, l.Decode(tc.value), tc.value)
		assert.InDelta(t, float64(tc.expect), float64(l.Length()), 1e-9, tc.value)
	}

	var l PlotLength
	assert.Error(t, l.Decode("wide"))
	assert.Error(t, l.Decode("in"))
}
