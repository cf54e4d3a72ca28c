package logging

import (
	"context"
	"io"

	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached to ctx. Without one it returns a
// logger that discards everything, so components built outside the CLI
// (tests, tools) stay quiet.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok && l != nil {
		return l
	}
	return Discard()
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return NewWithWriter(config.LoggingConfig{Level: "error"}, "", io.Discard)
}
