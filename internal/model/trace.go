package model

import (
	"github.com/samber/lo"

	"exusiai.dev/tracediag/internal/pkg/diagerr"
)

type TraceKind int

const (
	// TraceKindFlat is a single-variable trace: a sequence of N numbers.
	TraceKindFlat TraceKind = iota + 1
	// TraceKindNested is a sequence of N samples of K jointly sampled variables each.
	TraceKindNested
)

func (k TraceKind) String() string {
	switch k {
	case TraceKindFlat:
		return "flat"
	case TraceKindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// RawTrace is a trace in the sample-major order the sampler writes it in.
// Flat traces are stored with every scalar wrapped in a length-1 sample.
type RawTrace struct {
	Kind    TraceKind
	Samples [][]float64

	// Source is the file the trace was read from, empty when it was parsed from memory.
	Source string
}

// Width is the number of variables K per sample.
func (r *RawTrace) Width() int {
	if len(r.Samples) == 0 {
		return 0
	}
	return len(r.Samples[0])
}

// TraceMatrix is a dense (K, N) matrix in variable-major order: row j holds
// the N samples of variable j. It is never mutated after construction.
type TraceMatrix struct {
	kind   TraceKind
	source string
	rows   [][]float64
}

// NewTraceMatrix transposes raw into variable-major order. raw must be
// non-empty and rectangular.
func NewTraceMatrix(raw *RawTrace) (*TraceMatrix, error) {
	n := len(raw.Samples)
	if n == 0 {
		return nil, diagerr.ErrMalformedInput.Msg("trace has no samples")
	}
	k := raw.Width()
	if k == 0 {
		return nil, diagerr.ErrMalformedInput.Msg("trace samples have no variables")
	}
	for i, sample := range raw.Samples {
		if len(sample) != k {
			return nil, diagerr.ErrMalformedInput.
				Msg("sample %d has %d values, expected %d", i, len(sample), k).
				WithExtras(diagerr.Extras{"index": i})
		}
	}

	rows := lo.Times(k, func(j int) []float64 {
		return make([]float64, n)
	})
	for i, sample := range raw.Samples {
		for j, v := range sample {
			rows[j][i] = v
		}
	}

	return &TraceMatrix{
		kind:   raw.Kind,
		source: raw.Source,
		rows:   rows,
	}, nil
}

// Kind is the layout of the trace the matrix was built from.
func (m *TraceMatrix) Kind() TraceKind {
	return m.kind
}

func (m *TraceMatrix) Source() string {
	return m.source
}

// Shape returns (K, N).
func (m *TraceMatrix) Shape() (k, n int) {
	return m.NumVariables(), m.NumSamples()
}

func (m *TraceMatrix) NumVariables() int {
	return len(m.rows)
}

func (m *TraceMatrix) NumSamples() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0])
}

// Row returns a copy of the samples of variable j.
func (m *TraceMatrix) Row(j int) []float64 {
	row := make([]float64, len(m.rows[j]))
	copy(row, m.rows[j])
	return row
}

// SampleMajor transposes the matrix back into the (N, K) layout of the input.
func (m *TraceMatrix) SampleMajor() [][]float64 {
	k, n := m.Shape()
	return lo.Times(n, func(i int) []float64 {
		sample := make([]float64, k)
		for j := 0; j < k; j++ {
			sample[j] = m.rows[j][i]
		}
		return sample
	})
}
