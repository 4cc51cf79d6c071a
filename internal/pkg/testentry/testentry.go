package testentry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/tracediag/internal/app"
	"exusiai.dev/tracediag/internal/app/appcontext"
)

// Populate builds the application graph from the TRACEDIAG_* variables in env and
// fills targets from it. Variables are restored when the test ends.
func Populate(t testing.TB, env map[string]string, targets ...interface{}) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}

	opts, err := app.Options(appcontext.Declare(appcontext.EnvTest),
		fx.Populate(targets...),
		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
		// for testing, logger is too annoying. therefore, we use a NopLogger here
		fx.NopLogger,
	)
	if err != nil {
		t.Fatalf("failed to parse test configuration: %v", err)
	}

	a := fx.New(opts...)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("failed to start test application: %v", err)
	}
	t.Cleanup(func() {
		_ = a.Stop(context.Background())
	})
}
