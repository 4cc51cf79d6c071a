package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsProcessed.Add(3)
	m.GewekeFailures.Inc()
	m.TraceVariables.Set(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GewekeFailures))

	path := filepath.Join(t.TempDir(), "tracediag.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "tracediag_diagnostics_rows_processed_total 3")
	assert.Contains(t, string(content), "tracediag_diagnostics_geweke_failures_total 1")
	assert.Contains(t, string(content), "tracediag_trace_variables 3")
}
