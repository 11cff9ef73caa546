package app

import (
	"io"
	"log/slog"
)

// newLogger builds the isolated logger of an App from its validated config.
// The global logger is left untouched.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.logLevel()}

	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(outW, handlerOpts)
	default:
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler).With("app", "gridlevels")
}

// parseLogLevel accepts the names slog understands ("debug", "INFO",
// "warn+2", ...). An empty string means info.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(s))
	return level, err
}
