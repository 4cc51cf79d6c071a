package service

import (
	"math"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/util"
)

// Geweke computes Geweke z-scores: for a series of start offsets, the mean of
// the first First fraction of the remaining trace is compared against the mean
// of the last Last fraction, scaled by their pooled (population) variance.
// A trace that has converged yields scores mostly within ±2.
type Geweke struct {
	First     float64
	Last      float64
	Intervals int
}

func NewGeweke(config *appconfig.Config) *Geweke {
	return &Geweke{
		First:     config.GewekeFirst,
		Last:      config.GewekeLast,
		Intervals: config.GewekeIntervals,
	}
}

func (s *Geweke) Scores(row []float64) (model.GewekeScores, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	end := len(row) - 1
	step := int(float64(end) / 2 / float64(s.Intervals-1))
	if step <= 0 {
		return nil, diagerr.ErrDiagnosticComputationFailed.
			Msg("trace of %d samples is too short for %d geweke intervals", len(row), s.Intervals)
	}

	scores := make(model.GewekeScores, 0, s.Intervals)
	for start := 0; start < end/2; start += step {
		head := row[start : start+int(s.First*float64(end-start))]
		tail := row[int(float64(end)-s.Last*float64(end-start)):]
		if len(head) == 0 || len(tail) == 0 {
			return nil, diagerr.ErrDiagnosticComputationFailed.
				Msg("geweke window at start %d is empty", start)
		}

		headMean, headVar := util.PopMeanVariance(head)
		tailMean, tailVar := util.PopMeanVariance(tail)
		z := (headMean - tailMean) / math.Sqrt(headVar+tailVar)
		if !util.IsFinite(z) {
			return nil, diagerr.ErrDiagnosticComputationFailed.
				Msg("geweke z-score at start %d is not finite: windows have zero variance", start).
				WithExtras(diagerr.Extras{"start": start})
		}

		scores = append(scores, model.GewekeScore{Start: start, Z: z})
	}

	return scores, nil
}

func (s *Geweke) validate() error {
	for _, fraction := range []float64{s.First, s.Last} {
		if fraction <= 0 || fraction >= 1 {
			return diagerr.ErrDiagnosticComputationFailed.
				Msg("invalid geweke windows (%g, %g): each must be within (0, 1)", s.First, s.Last)
		}
	}
	if s.First+s.Last >= 1 {
		return diagerr.ErrDiagnosticComputationFailed.
			Msg("invalid geweke windows (%g, %g): they must sum to less than 1", s.First, s.Last)
	}
	if s.Intervals < 2 {
		return diagerr.ErrDiagnosticComputationFailed.Msg("invalid geweke intervals %d: at least 2 are needed", s.Intervals)
	}
	return nil
}
