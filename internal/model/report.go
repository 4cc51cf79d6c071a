package model

import "time"

type RowReport struct {
	Index         int           `json:"index"`
	Label         string        `json:"label"`
	Stats         *SummaryStats `json:"stats"`
	TracePlotPath string        `json:"tracePlotPath"`

	// GewekePlotPath is empty when the Geweke diagnostic failed for this row.
	GewekePlotPath string       `json:"gewekePlotPath,omitempty"`
	GewekeScores   GewekeScores `json:"gewekeScores,omitempty"`
	GewekeWarning  string       `json:"gewekeWarning,omitempty"`
}

func (r *RowReport) GewekeFailed() bool {
	return r.GewekeWarning != ""
}

type DiagnosticsReport struct {
	RunID        string       `json:"runId"`
	TracePath    string       `json:"tracePath,omitempty"`
	Kind         string       `json:"kind"`
	NumVariables int          `json:"numVariables"`
	NumSamples   int          `json:"numSamples"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
	Rows         []*RowReport `json:"rows"`
}

func (r *DiagnosticsReport) GewekeFailures() int {
	failures := 0
	for _, row := range r.Rows {
		if row.GewekeFailed() {
			failures++
		}
	}
	return failures
}

// Artifacts lists every file the run produced, in row order.
func (r *DiagnosticsReport) Artifacts() []string {
	artifacts := make([]string, 0, len(r.Rows)*2)
	for _, row := range r.Rows {
		if row.TracePlotPath != "" {
			artifacts = append(artifacts, row.TracePlotPath)
		}
		if row.GewekePlotPath != "" {
			artifacts = append(artifacts, row.GewekePlotPath)
		}
	}
	return artifacts
}
