package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/app/appcontext"
)

const LogFileName = "app.log"

// Configure replaces the global logger. Logs go to stderr so that stdout only
// carries the summary lines, and additionally to a rotated file under conf.LogDir.
func Configure(conf *appconfig.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var level zerolog.Level
	if conf.DevMode {
		level = zerolog.TraceLevel
	} else {
		level = zerolog.InfoLevel
	}

	var console io.Writer = os.Stderr
	if !conf.LogJsonStdout {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		}
	}

	writers := []io.Writer{console}
	if conf.LogDir != "" && conf.AppContext.Env != appcontext.EnvTest {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(conf.LogDir, LogFileName),
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(level)
}
