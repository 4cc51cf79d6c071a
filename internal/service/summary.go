package service

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/util"
)

type Summary struct{}

func NewSummary() *Summary {
	return &Summary{}
}

// Compute returns the summary statistics of row. Results are never cached.
func (s *Summary) Compute(label string, row []float64) (*model.SummaryStats, error) {
	if len(row) == 0 {
		return nil, diagerr.ErrEmptySeries.Msg("series \"%s\" has no samples", label)
	}

	bundle := util.CalcStatsBundle(row)
	return &model.SummaryStats{
		Label:  label,
		N:      bundle.N,
		Mean:   bundle.Mean,
		StdDev: bundle.StdDev,
		Median: bundle.Median,
		Min:    bundle.Min,
		Max:    bundle.Max,
	}, nil
}

// Report computes the statistics of row and writes them to w as a single line.
func (s *Summary) Report(w io.Writer, label string, row []float64) (*model.SummaryStats, error) {
	stats, err := s.Compute(label, row)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(w, stats.String()); err != nil {
		return nil, errors.Wrap(err, "failed to write summary line")
	}
	return stats, nil
}
