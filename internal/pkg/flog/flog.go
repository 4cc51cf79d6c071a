// Package flog provides a set of context.Context helpers for zerolog, scoped to a single tracediag run.
package flog

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type idKey struct{}

// FromCtx gets the logger in the run's context, falling back to the global logger.
// This is a shortcut for log.Ctx(ctx) with a sane default.
func FromCtx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// IDFromCtx returns the run id associated to the context if any.
func IDFromCtx(ctx context.Context) (id xid.ID, ok bool) {
	id, ok = ctx.Value(idKey{}).(xid.ID)
	return
}

// CtxWithID adds the given xid.ID to the context
func CtxWithID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// NewRunContext returns a context carrying a fresh run id and a copy of l
// annotated with that id using fieldKey as field key.
//
// The id is a URL safe mongo object-id-like unique id, sortable by creation time,
// which keeps archived runs listed in the order they ran.
func NewRunContext(ctx context.Context, l zerolog.Logger, fieldKey string) (context.Context, xid.ID) {
	id, ok := IDFromCtx(ctx)
	if !ok {
		id = xid.New()
		ctx = CtxWithID(ctx, id)
	}
	// Create a copy of the logger (including internal context slice)
	// to prevent data race when using UpdateContext.
	scoped := l.With().Str(fieldKey, id.String()).Logger()
	return scoped.WithContext(ctx), id
}

// Logger Level Method Helpers
func DebugFrom(ctx context.Context) *zerolog.Event {
	return FromCtx(ctx).Debug()
}

func InfoFrom(ctx context.Context) *zerolog.Event {
	return FromCtx(ctx).Info()
}

func WarnFrom(ctx context.Context) *zerolog.Event {
	return FromCtx(ctx).Warn()
}

func ErrorFrom(ctx context.Context) *zerolog.Event {
	return FromCtx(ctx).Error()
}
