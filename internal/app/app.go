package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/gridlevels/internal/ctxlog"
	"github.com/vk/gridlevels/internal/hclgraph"
	"github.com/vk/gridlevels/internal/plan"
)

// Loader reads grid items from the configured paths.
type Loader interface {
	Load(ctx context.Context, paths ...string) ([]*hclgraph.Item, error)
}

// Sink receives the resolved plan after it has been rendered.
type Sink interface {
	Name() string
	Publish(ctx context.Context, pl *plan.Plan) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader Loader
	sinks  []Sink
}

// NewApp is the constructor for the main application. The plan is rendered
// to outW and logs are written to logW through an isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader, sinks ...Sink) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		sinks:  sinks,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context returns ctx with the application's logger attached.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
