package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	cliapp "exusiai.dev/tracediag/cmd/app/cli"
	"exusiai.dev/tracediag/cmd/app/diagnose"
	"exusiai.dev/tracediag/cmd/app/summarize"
	"exusiai.dev/tracediag/internal/pkg/bininfo"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
)

func Run() {
	diagnoseCmd := diagnose.Command(cliapp.DepsFn[diagnose.CommandDeps]())

	app := &cli.App{
		Name:        "tracediag",
		Usage:       "plot and summarize MCMC traces and check their convergence",
		Description: "Loads the trace a sampler wrote to <TRACEDIAG_TRACE_DIR>/<TRACEDIAG_TRACE_FILE>, then for every variable renders a trace plot, prints summary statistics and runs the Geweke convergence diagnostic. Configured entirely through TRACEDIAG_* environment variables.",
		Version:     bininfo.Version,
		Action:      diagnoseCmd.Action,
		Commands: []*cli.Command{
			diagnoseCmd,
			summarize.Command(cliapp.DepsFn[summarize.CommandDeps]()),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("tracediag failed")
		os.Exit(diagerr.ExitCode(err))
	}
}
