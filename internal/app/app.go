package app

import (
	"time"

	"go.uber.org/fx"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/app/appcontext"
	"exusiai.dev/tracediag/internal/infra"
	"exusiai.dev/tracediag/internal/pkg/logger"
	"exusiai.dev/tracediag/internal/pkg/observability"
	"exusiai.dev/tracediag/internal/service"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) ([]fx.Option, error) {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		return nil, err
	}

	return OptionsWithConfig(conf, additionalOpts...), nil
}

// OptionsWithConfig builds the fx graph around an already parsed configuration.
func OptionsWithConfig(conf *appconfig.Config, additionalOpts ...fx.Option) []fx.Option {
	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),
		fx.Provide(observability.NewMetrics),

		// Infrastructures
		infra.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits
		fx.Invoke(infra.SentryInit),

		// fx Extra Options
		fx.StartTimeout(5 * time.Second),
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) (*fx.App, error) {
	opts, err := Options(ctx, additionalOpts...)
	if err != nil {
		return nil, err
	}
	return fx.New(opts...), nil
}
