package app

import (
	"context"
	"fmt"

	"github.com/vk/gridlevels/deplevel"
	"github.com/vk/gridlevels/internal/plan"
)

// Run loads the grid, resolves it into levels, renders the plan and hands it
// to every configured sink.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	items, err := a.loader.Load(ctx, a.config.GridPaths...)
	if err != nil {
		return fmt.Errorf("failed to load grid: %w", err)
	}
	a.logger.Debug("Grid loaded.", "item_count", len(items))
	if len(items) == 0 {
		a.logger.Warn("No items found in grid, plan is empty.")
	}

	strategy := a.config.strategy()
	graph := deplevel.New[string](
		deplevel.WithWorkers(a.config.WorkerCount),
		deplevel.WithStrategy(strategy),
	)
	deplevel.AddAll(graph, items)
	a.logger.Debug("Dependency graph built.", "node_count", graph.Len())

	levels, err := graph.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve dependency levels: %w", err)
	}
	pl := plan.FromLevels(levels, strategy)
	a.logger.Info("Plan resolved.", "levels", len(pl.Levels), "items", pl.Count(), "strategy", pl.Strategy)

	if err := pl.Write(a.outW, a.config.OutputFormat); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	for _, sink := range a.sinks {
		a.logger.Debug("Publishing plan.", "sink", sink.Name())
		if err := sink.Publish(ctx, pl); err != nil {
			return fmt.Errorf("failed to publish plan to %s: %w", sink.Name(), err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
