package diagnose

import (
	"context"
	"io"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/felixge/fgprof"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/pkg/flog"
)

const sentryFlushTimeout = 2 * time.Second

func run(ctx context.Context, deps CommandDeps, stdout io.Writer) (err error) {
	if deps.Config.ProfilerAddress != "" {
		startProfiler(deps.Config.ProfilerAddress)
	}

	ctx, runID := flog.NewRunContext(ctx, log.Logger, "runId")
	flog.InfoFrom(ctx).Str("trace", deps.Config.TracePath()).Msg("running diagnostics")

	start := time.Now()
	defer func() {
		finish(ctx, deps, time.Since(start), err)
	}()

	matrix, err := deps.TraceService.LoadDefault(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load trace")
	}

	report, err := deps.DiagnosticsService.Run(ctx, matrix, stdout)
	if err != nil {
		return errors.Wrap(err, "failed to run diagnostics")
	}

	summaryPath, err := deps.ExportService.WriteSummaryJSON(ctx, report)
	if err != nil {
		return errors.Wrap(err, "failed to export summary")
	}

	if err = deps.ArchiveService.Upload(ctx, report, summaryPath); err != nil {
		return errors.Wrap(err, "failed to archive run")
	}

	flog.InfoFrom(ctx).Str("runId", runID.String()).Msg("diagnostics completed")

	return nil
}

// finish records the run outcome in the metrics textfile and in Sentry.
// Neither is allowed to change the outcome of the run.
func finish(ctx context.Context, deps CommandDeps, elapsed time.Duration, runErr error) {
	deps.Metrics.RunDuration.Set(elapsed.Seconds())
	if runErr == nil {
		deps.Metrics.LastRunSuccess.Set(1)
	} else {
		deps.Metrics.LastRunSuccess.Set(0)
		flog.ErrorFrom(ctx).
			Err(runErr).
			Int("exitCode", diagerr.ExitCode(runErr)).
			Dur("elapsed", elapsed).
			Msg("diagnostics failed")
		sentry.CaptureException(runErr)
	}

	if deps.Config.MetricsTextfile != "" {
		if err := deps.Metrics.WriteTextfile(deps.Config.MetricsTextfile); err != nil {
			flog.WarnFrom(ctx).Err(err).Msg("failed to export metrics")
		}
	}

	sentry.Flush(sentryFlushTimeout)
}

func startProfiler(addr string) {
	http.DefaultServeMux.Handle("/debug/fgprof", fgprof.Handler())
	go func() {
		log.Print(http.ListenAndServe(addr, nil))
	}()
	log.Info().Str("addr", addr).Msg("profiler listening")
}
