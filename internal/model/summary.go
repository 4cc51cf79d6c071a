package model

import "fmt"

// SummaryStats describes one trace row. StdDev is the population standard deviation.
type SummaryStats struct {
	Label  string  `json:"label"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (s *SummaryStats) String() string {
	return fmt.Sprintf("%s  mean: %g,  std: %g,  median: %g,  min: %g,  max: %g",
		s.Label, s.Mean, s.StdDev, s.Median, s.Min, s.Max)
}
