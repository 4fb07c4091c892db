package logger

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// With derives a context whose logger carries the given fields on every
// record logged through From.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
		return l
	}
	return L()
}
