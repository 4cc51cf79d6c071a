package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// fxLogger reports the fx lifecycle as structured events. Successful wiring is
// logged at debug level; anything carrying an error is logged at error level.
type fxLogger struct {
	l zerolog.Logger
}

var _ fxevent.Logger = (*fxLogger)(nil)

func Fx() fxevent.Logger {
	return &fxLogger{
		l: log.Logger.
			With().
			Str("evt.name", "fx.init").
			Logger(),
	}
}

func (f *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Supplied:
		f.event(e.Err).
			Str("type", e.TypeName).
			Str("module", e.ModuleName).
			Msg("supplied")
	case *fxevent.Provided:
		f.event(e.Err).
			Str("constructor", e.ConstructorName).
			Strs("types", e.OutputTypeNames).
			Str("module", e.ModuleName).
			Msg("provided")
	case *fxevent.Invoked:
		f.event(e.Err).
			Str("function", e.FunctionName).
			Str("module", e.ModuleName).
			Msg("invoked")
	case *fxevent.OnStartExecuted:
		f.event(e.Err).
			Str("callee", e.FunctionName).
			Str("caller", e.CallerName).
			Dur("runtime", e.Runtime).
			Msg("OnStart hook executed")
	case *fxevent.Started:
		f.event(e.Err).Msg("started")
	case *fxevent.Stopped:
		f.event(e.Err).Msg("stopped")
	case *fxevent.LoggerInitialized:
		f.event(e.Err).Str("constructor", e.ConstructorName).Msg("logger initialized")
	}
}

func (f *fxLogger) event(err error) *zerolog.Event {
	if err != nil {
		return f.l.Error().Err(err)
	}
	return f.l.Debug()
}
