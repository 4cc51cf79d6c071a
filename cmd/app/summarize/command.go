package summarize

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/tracediag/internal/service"
)

type CommandDeps struct {
	fx.In

	TraceService       *service.Trace
	DiagnosticsService *service.Diagnostics
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "summarize",
		Usage:       "print summary statistics for every variable of the trace",
		Description: "loads the trace and prints one summary line per variable, without plotting",
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}

			matrix, err := deps.TraceService.LoadDefault(c.Context)
			if err != nil {
				return errors.Wrap(err, "failed to load trace")
			}
			if _, err := deps.DiagnosticsService.Summarize(c.Context, matrix, c.App.Writer); err != nil {
				return errors.Wrap(err, "failed to summarize trace")
			}
			return nil
		},
	}
}
