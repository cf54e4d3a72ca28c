package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
)

// serviceName is attached to every record so PiPlant lines can be picked
// out of a shared journal.
const serviceName = "piplant"

// Logger is the structured logger handed to every PiPlant package. Each
// record carries service=piplant and, when known, the build version.
//
// A Logger is safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds the logger described by the logging section of config.yaml.
// version is left off the records when empty.
func New(cfg config.LoggingConfig, version string) *Logger {
	return NewWithWriter(cfg, version, destination(cfg.Output))
}

// NewWithWriter is New writing to w instead of cfg.Output.
func NewWithWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{slog.String("service", serviceName)}
	if version != "" {
		attrs = append(attrs, slog.String("version", version))
	}
	return &Logger{Logger: slog.New(h.WithAttrs(attrs))}
}

// Default is the bootstrap logger used until config.yaml has been read:
// JSON at info level on stdout. It has no version attribute; the startup
// line reports the build itself.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "")
}

// destination maps the output setting to a stream. Anything other than
// stderr means stdout.
func destination(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// parseLevel accepts debug, info, warn (or warning) and error in any case.
// Unknown values fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component returns a child logger tagged with component=name, e.g.
// logger.Component("registry").
//
// The result satisfies the small Logger interfaces declared by the
// registry, component and infrastructure packages.
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}
