package model

// GewekeScore is the z-score comparing the head of the trace starting at Start against its tail.
type GewekeScore struct {
	Start int     `json:"start"`
	Z     float64 `json:"z"`
}

// GewekeScores are ordered by ascending Start.
type GewekeScores []GewekeScore

// MaxAbsZ returns the largest |z| among the scores, or 0 when there are none.
func (s GewekeScores) MaxAbsZ() float64 {
	max := 0.0
	for _, score := range s {
		z := score.Z
		if z < 0 {
			z = -z
		}
		if z > max {
			max = z
		}
	}
	return max
}
