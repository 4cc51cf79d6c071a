package diagnose

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/pkg/observability"
	"exusiai.dev/tracediag/internal/service"
)

type CommandDeps struct {
	fx.In

	Config             *appconfig.Config
	Metrics            *observability.Metrics
	TraceService       *service.Trace
	DiagnosticsService *service.Diagnostics
	ExportService      *service.Export
	ArchiveService     *service.Archive
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "diagnose",
		Usage:       "plot, summarize and run the Geweke diagnostic for every variable of the trace (default)",
		Description: "writes trace_<i> and gweke_<i> plots and summary.json to the output directory and prints one summary line per variable",
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, deps, c.App.Writer)
		},
	}
}
