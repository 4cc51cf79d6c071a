package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxevent"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/app/appcontext"
)

func TestConfigureLevel(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	conf := &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{LogDir: filepath.Join(t.TempDir(), "logs")},
		AppContext: appcontext.Declare(appcontext.EnvTest),
	}

	Configure(conf)
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	conf.DevMode = true
	Configure(conf)
	assert.Equal(t, zerolog.TraceLevel, log.Logger.GetLevel())
}

func TestFxLoggerLevels(t *testing.T) {
	var out bytes.Buffer
	l := &fxLogger{l: zerolog.New(&out).Level(zerolog.DebugLevel)}

	l.LogEvent(&fxevent.Provided{
		ConstructorName: "service.NewTrace()",
		OutputTypeNames: []string{"*service.Trace"},
		ModuleName:      "service",
	})
	assert.Contains(t, out.String(), `"level":"debug"`)
	assert.Contains(t, out.String(), `"types":["*service.Trace"]`)
	assert.Contains(t, out.String(), `"message":"provided"`)

	out.Reset()
	l.LogEvent(&fxevent.Invoked{FunctionName: "infra.SentryInit()", Err: errors.New("bad dsn")})
	assert.Contains(t, out.String(), `"level":"error"`)
	assert.Contains(t, out.String(), `"error":"bad dsn"`)
	assert.Contains(t, out.String(), `"function":"infra.SentryInit()"`)

	out.Reset()
	l.l = l.l.Level(zerolog.InfoLevel)
	l.LogEvent(&fxevent.Started{})
	assert.Empty(t, out.String())
}
