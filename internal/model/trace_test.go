package model

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/tracediag/internal/pkg/diagerr"
)

func TestNewTraceMatrixTransposes(t *testing.T) {
	type testCase struct {
		raw        *RawTrace
		expectK    int
		expectN    int
		expectRows [][]float64
	}

	testCases := []testCase{
		{
			raw:        &RawTrace{Kind: TraceKindFlat, Samples: [][]float64{{1}, {2}, {3}, {4}}},
			expectK:    1,
			expectN:    4,
			expectRows: [][]float64{{1, 2, 3, 4}},
		},
		{
			raw:        &RawTrace{Kind: TraceKindNested, Samples: [][]float64{{1, 2}, {3, 4}, {5, 6}}},
			expectK:    2,
			expectN:    3,
			expectRows: [][]float64{{1, 3, 5}, {2, 4, 6}},
		},
		{
			raw:        &RawTrace{Kind: TraceKindNested, Samples: [][]float64{{0.5, -1, 7}}},
			expectK:    3,
			expectN:    1,
			expectRows: [][]float64{{0.5}, {-1}, {7}},
		},
	}

	for _, tc := range testCases {
		m, err := NewTraceMatrix(tc.raw)
		require.NoError(t, err)

		k, n := m.Shape()
		assert.Equal(t, tc.expectK, k)
		assert.Equal(t, tc.expectN, n)
		assert.Equal(t, tc.raw.Kind, m.Kind())
		for j, expect := range tc.expectRows {
			assert.Equalf(t, expect, m.Row(j), "row %d mismatch\nraw: %s", j, spew.Sdump(tc.raw))
		}
	}
}

func TestTraceMatrixRoundTrip(t *testing.T) {
	samples := [][]float64{
		{0.1, 10, -3},
		{0.2, 11, -2},
		{0.3, 12, -1},
		{0.4, 13, 0},
		{0.5, 14, 1e-300},
	}

	m, err := NewTraceMatrix(&RawTrace{Kind: TraceKindNested, Samples: samples})
	require.NoError(t, err)
	assert.Equal(t, samples, m.SampleMajor())
}

func TestTraceMatrixRowIsACopy(t *testing.T) {
	m, err := NewTraceMatrix(&RawTrace{Kind: TraceKindFlat, Samples: [][]float64{{1}, {2}}})
	require.NoError(t, err)

	row := m.Row(0)
	row[0] = 42
	assert.Equal(t, []float64{1, 2}, m.Row(0))
}

func TestNewTraceMatrixRejectsMalformed(t *testing.T) {
	cases := map[string]*RawTrace{
		"empty":        {Kind: TraceKindNested},
		"no variables": {Kind: TraceKindNested, Samples: [][]float64{{}, {}}},
		"ragged":       {Kind: TraceKindNested, Samples: [][]float64{{1, 2}, {3}}},
	}

	for name, raw := range cases {
		_, err := NewTraceMatrix(raw)
		assert.Truef(t, errors.Is(err, diagerr.ErrMalformedInput), "%s: expect malformed input, got %v", name, err)
	}
}

func TestSummaryStatsString(t *testing.T) {
	s := &SummaryStats{Label: "trace_0", N: 3, Mean: 3, StdDev: 1.5, Median: 3, Min: 1, Max: 5}
	assert.Equal(t, "trace_0  mean: 3,  std: 1.5,  median: 3,  min: 1,  max: 5", s.String())
}

func TestDiagnosticsReportHelpers(t *testing.T) {
	report := &DiagnosticsReport{
		Rows: []*RowReport{
			{Index: 0, TracePlotPath: "/out/trace_0.png", GewekePlotPath: "/out/gweke_0.png"},
			{Index: 1, TracePlotPath: "/out/trace_1.png", GewekeWarning: "trace too short"},
		},
	}

	assert.Equal(t, 1, report.GewekeFailures())
	assert.Equal(t, []string{"/out/trace_0.png", "/out/gweke_0.png", "/out/trace_1.png"}, report.Artifacts())
	assert.Equal(t, 2.5, GewekeScores{{0, 1}, {5, -2.5}, {10, 2}}.MaxAbsZ())
}
