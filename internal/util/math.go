package util

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type StatsBundle struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

// CalcStatsBundle computes the population statistics of values. values must not be empty.
func CalcStatsBundle(values []float64) *StatsBundle {
	mean, stdDev := stat.PopMeanStdDev(values, nil)
	return &StatsBundle{
		N:      len(values),
		Mean:   mean,
		StdDev: stdDev,
		Median: Median(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

// Median returns the middle value of values, or the mean of the two middle values
// when len(values) is even. values is left untouched. values must not be empty.
func Median(values []float64) float64 {
	n := len(values)
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// PopMeanVariance returns the mean and the population (ddof=0) variance of values.
func PopMeanVariance(values []float64) (mean, variance float64) {
	return stat.PopMeanVariance(values, nil)
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
