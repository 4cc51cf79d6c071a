package service

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/pkg/flog"
	"exusiai.dev/tracediag/internal/pkg/observability"
)

const (
	TraceArtifactName  = "trace"
	GewekeArtifactName = "gweke"
)

type TracePlotter interface {
	PlotTrace(name string, row []float64) (string, error)
	PlotGeweke(name string, scores model.GewekeScores) (string, error)
}

type ConvergenceDiagnostic interface {
	Scores(row []float64) (model.GewekeScores, error)
}

type SeriesReporter interface {
	Report(w io.Writer, label string, row []float64) (*model.SummaryStats, error)
}

var (
	_ TracePlotter          = (*Plot)(nil)
	_ ConvergenceDiagnostic = (*Geweke)(nil)
	_ SeriesReporter        = (*Summary)(nil)
)

type Diagnostics struct {
	Config  *appconfig.Config
	Metrics *observability.Metrics

	Plotter    TracePlotter
	Diagnostic ConvergenceDiagnostic
	Reporter   SeriesReporter
}

func NewDiagnostics(
	config *appconfig.Config,
	metrics *observability.Metrics,
	plot *Plot,
	geweke *Geweke,
	summary *Summary,
) *Diagnostics {
	return &Diagnostics{
		Config:     config,
		Metrics:    metrics,
		Plotter:    plot,
		Diagnostic: geweke,
		Reporter:   summary,
	}
}

// Run plots, summarizes and checks the convergence of every row of matrix in order,
// writing one summary line per row to w.
//
// A failed Geweke diagnostic only affects its own row: it is logged as a warning and
// recorded on the row report. Any other error aborts the run; the partial report is
// returned alongside it.
func (s *Diagnostics) Run(ctx context.Context, matrix *model.TraceMatrix, w io.Writer) (*model.DiagnosticsReport, error) {
	k, n := matrix.Shape()
	report := &model.DiagnosticsReport{
		TracePath:    matrix.Source(),
		Kind:         matrix.Kind().String(),
		NumVariables: k,
		NumSamples:   n,
		StartedAt:    time.Now(),
		Rows:         make([]*model.RowReport, 0, k),
	}
	if id, ok := flog.IDFromCtx(ctx); ok {
		report.RunID = id.String()
	}
	s.Metrics.TraceVariables.Set(float64(k))
	s.Metrics.TraceSamples.Set(float64(n))

	for j := 0; j < k; j++ {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrapf(err, "diagnostics interrupted before row %d", j)
		}

		row, err := s.processRow(ctx, matrix, j, w)
		if err != nil {
			return report, err
		}
		report.Rows = append(report.Rows, row)
		s.Metrics.RowsProcessed.Inc()
	}

	report.FinishedAt = time.Now()
	flog.InfoFrom(ctx).
		Int("rows", len(report.Rows)).
		Int("gewekeFailures", report.GewekeFailures()).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("diagnostics finished")

	return report, nil
}

// Summarize writes the summary line of every row of matrix to w without plotting
// or running the convergence diagnostic.
func (s *Diagnostics) Summarize(ctx context.Context, matrix *model.TraceMatrix, w io.Writer) ([]*model.SummaryStats, error) {
	k := matrix.NumVariables()
	summaries := make([]*model.SummaryStats, 0, k)
	for j := 0; j < k; j++ {
		if err := ctx.Err(); err != nil {
			return summaries, errors.Wrapf(err, "summary interrupted before row %d", j)
		}
		stats, err := s.Reporter.Report(w, s.artifactName(TraceArtifactName, j, k), matrix.Row(j))
		if err != nil {
			return summaries, errors.Wrapf(err, "failed to summarize row %d", j)
		}
		summaries = append(summaries, stats)
	}
	return summaries, nil
}

func (s *Diagnostics) processRow(ctx context.Context, matrix *model.TraceMatrix, j int, w io.Writer) (*model.RowReport, error) {
	traceName := s.artifactName(TraceArtifactName, j, matrix.NumVariables())
	row := matrix.Row(j)
	result := &model.RowReport{
		Index: j,
		Label: traceName,
	}

	tracePath, err := s.Plotter.PlotTrace(traceName, row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to plot trace of row %d", j)
	}
	result.TracePlotPath = tracePath
	flog.DebugFrom(ctx).Int("row", j).Str("path", tracePath).Msg("trace plot saved")

	stats, err := s.Reporter.Report(w, traceName, row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to summarize row %d", j)
	}
	result.Stats = stats

	gewekeName := s.artifactName(GewekeArtifactName, j, matrix.NumVariables())
	scores, gewekePath, err := s.geweke(gewekeName, row)
	if err != nil {
		if !diagerr.IsRecoverable(err) {
			return nil, errors.Wrapf(err, "failed to run geweke diagnostic of row %d", j)
		}
		flog.WarnFrom(ctx).
			Err(err).
			Int("row", j).
			Str("label", traceName).
			Msg("geweke diagnostic failed; continuing with the next row")
		s.Metrics.GewekeFailures.Inc()
		captureWarning(err, traceName)
		result.GewekeWarning = err.Error()
		return result, nil
	}

	result.GewekeScores = scores
	result.GewekePlotPath = gewekePath
	flog.DebugFrom(ctx).
		Int("row", j).
		Str("path", gewekePath).
		Float64("maxAbsZ", scores.MaxAbsZ()).
		Msg("geweke plot saved")

	return result, nil
}

func (s *Diagnostics) geweke(name string, row []float64) (model.GewekeScores, string, error) {
	scores, err := s.Diagnostic.Scores(row)
	if err != nil {
		return nil, "", err
	}
	path, err := s.Plotter.PlotGeweke(name, scores)
	if err != nil {
		return nil, "", err
	}
	return scores, path, nil
}

// artifactName is <base>_<j>, or just <base> for a single-variable trace when
// UnsuffixedSingleTrace is set.
func (s *Diagnostics) artifactName(base string, j int, rows int) string {
	if rows == 1 && s.Config.UnsuffixedSingleTrace {
		return base
	}
	return base + "_" + strconv.Itoa(j)
}

func captureWarning(err error, label string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("label", label)
		sentry.CaptureException(err)
	})
}
