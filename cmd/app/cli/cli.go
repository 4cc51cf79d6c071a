package cli

import (
	"context"

	"go.uber.org/fx"

	"exusiai.dev/tracediag/internal/app"
	"exusiai.dev/tracediag/internal/app/appcontext"
)

func Start(module fx.Option) error {
	a, err := app.New(appcontext.Declare(appcontext.EnvCLI), module)
	if err != nil {
		return err
	}
	return a.Start(context.Background())
}

// DepsFn returns a function that builds the fx graph and populates a T from it.
// Nothing is parsed or initialized until the returned function is called.
func DepsFn[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		err := Start(fx.Populate(&deps))
		return deps, err
	}
}
