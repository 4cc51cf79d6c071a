package appconfig

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"exusiai.dev/tracediag/internal/app/appcontext"
	"exusiai.dev/tracediag/internal/util"
)

const envPrefix = "tracediag"

func Parse(ctx appcontext.Ctx) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var spec ConfigSpec
	err = envconfig.Process(envPrefix, &spec)
	if err != nil {
		_ = envconfig.Usage(envPrefix, &spec)
		return nil, fmt.Errorf("failed to parse configuration: %w. More info on how to configure tracediag is located at https://pkg.go.dev/exusiai.dev/tracediag/internal/app/appconfig#ConfigSpec", err)
	}

	return New(ctx, spec)
}

// New resolves directory defaults of spec and validates it.
func New(ctx appcontext.Ctx, spec ConfigSpec) (*Config, error) {
	if spec.TraceDir == "" {
		spec.TraceDir = os.TempDir()
	}
	if spec.OutputDir == "" {
		spec.OutputDir = spec.TraceDir
	}

	validate := util.NewValidator()
	validate.RegisterStructValidation(gewekeWindows, ConfigSpec{})
	if err := validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Config{
		ConfigSpec: spec,
		AppContext: ctx,
	}, nil
}

func gewekeWindows(sl validator.StructLevel) {
	spec := sl.Current().Interface().(ConfigSpec)
	if spec.GewekeFirst+spec.GewekeLast >= 1 {
		sl.ReportError(spec.GewekeLast, "GewekeLast", "GewekeLast", "gewekewindows", "")
	}
}
