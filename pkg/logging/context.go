package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

func with(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	l := fn(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &l)
}

// WithTarget tags log lines with the remote target id.
func WithTarget(ctx context.Context, target string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("target", target) })
}

// WithEnv tags log lines with the logical environment.
func WithEnv(ctx context.Context, env string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("env", env) })
}

// WithOperation tags log lines with the running command.
func WithOperation(ctx context.Context, operation string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("operation", operation) })
}
