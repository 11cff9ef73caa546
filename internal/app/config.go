package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vk/gridlevels/deplevel"
	"github.com/vk/gridlevels/internal/artifact"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPaths []string // hcl files or directories

	LogFormat    string
	LogLevel     string
	OutputFormat string
	WorkerCount  int
	Strategy     string

	// Socket.io publishing is enabled when EmitURL is set.
	EmitURL       string
	EmitNamespace string
	EmitEvent     string
	EmitTimeout   time.Duration
	EmitInsecure  bool

	// S3 upload is enabled when UploadKey is set.
	UploadKey string
	S3        artifact.S3Config
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GridPaths) == 0 {
		return nil, errors.New("GridPaths is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	switch cfg.OutputFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid output format %q: must be 'text' or 'json'", cfg.OutputFormat)
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("worker count must not be negative, got %d", cfg.WorkerCount)
	}
	if _, err := deplevel.ParseStrategy(cfg.Strategy); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// strategy returns the parsed resolution strategy. NewConfig has already
// validated it.
func (c *Config) strategy() deplevel.Strategy {
	s, _ := deplevel.ParseStrategy(c.Strategy)
	return s
}

func (c *Config) logLevel() slog.Level {
	level, _ := parseLogLevel(c.LogLevel)
	return level
}

// LogValue keeps credentials out of the logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("grid_paths", c.GridPaths),
		slog.String("log_format", c.LogFormat),
		slog.String("log_level", c.LogLevel),
		slog.String("output", c.OutputFormat),
		slog.Int("workers", c.WorkerCount),
		slog.String("strategy", c.Strategy),
		slog.String("emit_url", c.EmitURL),
		slog.String("emit_namespace", c.EmitNamespace),
		slog.String("emit_event", c.EmitEvent),
		slog.Duration("emit_timeout", c.EmitTimeout),
		slog.Bool("emit_insecure", c.EmitInsecure),
		slog.String("upload_key", c.UploadKey),
		slog.Any("s3", c.S3),
	)
}
