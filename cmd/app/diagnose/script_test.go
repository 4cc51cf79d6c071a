package diagnose

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/pkg/testentry"
)

func setup(t *testing.T, trace string, env map[string]string) (CommandDeps, string) {
	t.Helper()
	dir := t.TempDir()
	if trace != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "trace.json"), []byte(trace), 0o644))
	}

	vars := map[string]string{
		"TRACEDIAG_TRACE_DIR":               dir,
		"TRACEDIAG_OUTPUT_DIR":              "",
		"TRACEDIAG_LOG_DIR":                 "",
		"TRACEDIAG_ARCHIVE_S3_BUCKET":       "",
		"TRACEDIAG_SENTRY_DSN":              "",
		"TRACEDIAG_PROFILER_ADDRESS":        "",
		"TRACEDIAG_METRICS_TEXTFILE":        filepath.Join(dir, "tracediag.prom"),
		"TRACEDIAG_UNSUFFIXED_SINGLE_TRACE": "false",
	}
	for k, v := range env {
		vars[k] = v
	}

	var deps CommandDeps
	testentry.Populate(t, vars, &deps)
	return deps, dir
}

func TestRunShortNestedTrace(t *testing.T) {
	deps, dir := setup(t, `[[1,2],[3,4],[5,6]]`, nil)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), deps, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "trace_0  mean: 3,"))
	assert.True(t, strings.HasSuffix(lines[0], "median: 3,  min: 1,  max: 5"))
	assert.True(t, strings.HasPrefix(lines[1], "trace_1  mean: 4,"))
	assert.True(t, strings.HasSuffix(lines[1], "median: 4,  min: 2,  max: 6"))

	assert.FileExists(t, filepath.Join(dir, "trace_0.png"))
	assert.FileExists(t, filepath.Join(dir, "trace_1.png"))
	// three samples are too few for the Geweke diagnostic
	assert.NoFileExists(t, filepath.Join(dir, "gweke_0.png"))
	assert.NoFileExists(t, filepath.Join(dir, "gweke_1.png"))

	summary, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	doc := gjson.ParseBytes(summary)
	assert.Equal(t, "nested", doc.Get("kind").String())
	assert.Equal(t, filepath.Join(dir, "trace.json"), doc.Get("tracePath").String())
	assert.Equal(t, int64(2), doc.Get("rows.#").Int())
	assert.NotEmpty(t, doc.Get("rows.0.gewekeWarning").String())
	assert.NotEmpty(t, doc.Get("runId").String())

	metrics, err := os.ReadFile(filepath.Join(dir, "tracediag.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "tracediag_diagnostics_rows_processed_total 2")
	assert.Contains(t, string(metrics), "tracediag_diagnostics_geweke_failures_total 2")
	assert.Contains(t, string(metrics), "tracediag_run_last_success 1")
}

func TestRunLongFlatTrace(t *testing.T) {
	samples := make([]string, 200)
	for i := range samples {
		samples[i] = []string{"0.5", "-0.25", "1", "0", "-1"}[i%5]
	}
	out := filepath.Join(t.TempDir(), "plots")
	deps, dir := setup(t, "["+strings.Join(samples, ",")+"]", map[string]string{
		"TRACEDIAG_OUTPUT_DIR":              out,
		"TRACEDIAG_PLOT_FORMAT":             "svg",
		"TRACEDIAG_UNSUFFIXED_SINGLE_TRACE": "true",
	})
	var stdout bytes.Buffer

	require.NoError(t, run(context.Background(), deps, &stdout))

	assert.True(t, strings.HasPrefix(stdout.String(), "trace  mean: 0.05,"))
	assert.FileExists(t, filepath.Join(out, "trace.svg"))
	assert.FileExists(t, filepath.Join(out, "gweke.svg"))
	assert.FileExists(t, filepath.Join(out, "summary.json"))
	assert.NoFileExists(t, filepath.Join(dir, "trace.svg"))
}

func TestRunMalformedTrace(t *testing.T) {
	deps, dir := setup(t, `{"not": "a trace"}`, nil)
	var out bytes.Buffer

	err := run(context.Background(), deps, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagerr.ErrMalformedInput))
	assert.Equal(t, diagerr.ExitDataErr, diagerr.ExitCode(err))
	assert.Empty(t, out.String())
	assert.NoFileExists(t, filepath.Join(dir, "summary.json"))

	metrics, err := os.ReadFile(filepath.Join(dir, "tracediag.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "tracediag_run_last_success 0")
}

func TestRunMissingTrace(t *testing.T) {
	deps, _ := setup(t, "", nil)

	err := run(context.Background(), deps, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, diagerr.ExitDataErr, diagerr.ExitCode(err))
}
