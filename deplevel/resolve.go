package deplevel

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vk/gridlevels/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Resolve assigns every known identifier to a level.
//
// Resolve consumes the graph: once it returns, successfully or not, the graph
// holds no state and a later call returns ErrConsumed. The context carries
// the logger and is checked for cancellation between passes. A nil context
// is treated as context.Background.
func (g *Graph[ID]) Resolve(ctx context.Context) (*Levels[ID], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ids, deps, ok := g.take()
	if !ok {
		return nil, ErrConsumed
	}
	logger := ctxlog.FromContext(ctx).With("component", "deplevel", "strategy", g.opts.strategy.String())

	if ids.len() == 0 {
		logger.Debug("Graph is empty, nothing to resolve.")
		return newLevels[ID](nil), nil
	}

	roots, pending := partition(ids, deps)
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: none of the %d identifiers is free of dependencies", ErrIslandsOrCircular, len(pending))
	}

	r := &resolver[ID]{
		deps:     deps,
		workers:  g.opts.workers,
		strategy: g.opts.strategy,
		placed:   make(map[ID]int, len(roots)+len(pending)),
	}
	root := newSyncSet[ID]()
	for _, id := range roots {
		root.insert(id)
	}
	r.record(root.freeze())
	logger.Debug("Resolved level.", "level", 0, "count", len(roots), "pending", len(pending))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		level := len(r.sets)

		admitted, remaining, err := r.pass(pending)
		if err != nil {
			return nil, fmt.Errorf("resolving level %d: %w", level, err)
		}
		if len(admitted) == 0 {
			if len(remaining) == 0 {
				logger.Debug("Resolution complete.", "levels", len(r.sets))
				return newLevels(r.sets), nil
			}
			return nil, fmt.Errorf("%w: %d identifiers cannot advance past level %d", ErrIslandsOrCircular, len(remaining), level-1)
		}

		set := newSyncSet[ID]()
		for _, id := range admitted {
			set.insert(id)
		}
		r.record(set.freeze())
		pending = remaining
		logger.Debug("Resolved level.", "level", level, "count", len(admitted), "pending", len(pending))
	}
}

// take marks the graph consumed and hands over its containers. It waits for
// in-flight Add batches to finish.
func (g *Graph[ID]) take() (*syncSet[ID], *depMap[ID], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.consumed.CompareAndSwap(false, true) {
		return nil, nil, false
	}
	ids, deps := g.ids, g.deps
	g.ids, g.deps = nil, nil
	return ids, deps, true
}

// partition splits all identifiers into roots, which have no dependency
// entry, and the rest.
func partition[ID comparable](ids *syncSet[ID], deps *depMap[ID]) (roots, others []ID) {
	for _, id := range ids.slice() {
		if _, ok := deps.get(id); ok {
			others = append(others, id)
		} else {
			roots = append(roots, id)
		}
	}
	return roots, others
}

// resolver holds the working state of one resolution.
type resolver[ID comparable] struct {
	deps     *depMap[ID]
	workers  int
	strategy Strategy

	// sets[n] is level n; the last element is the frontier.
	sets []*Set[ID]
	// placed records the level of every assigned identifier. It is only
	// written between passes.
	placed map[ID]int
}

func (r *resolver[ID]) record(set *Set[ID]) {
	level := len(r.sets)
	r.sets = append(r.sets, set)
	for id := range set.All() {
		r.placed[id] = level
	}
}

// pass examines every pending identifier concurrently and splits them into
// those admitted to the next level and those that stay pending.
func (r *resolver[ID]) pass(pending []ID) (admitted, remaining []ID, err error) {
	next := newSyncSet[ID]()
	rest := newSyncSet[ID]()
	var missing atomic.Bool

	var eg errgroup.Group
	eg.SetLimit(r.workers)
	for _, id := range pending {
		eg.Go(func() error {
			deps, ok := r.deps.get(id)
			if !ok {
				missing.Store(true)
				return nil
			}
			if r.admit(deps) {
				next.insert(id)
			} else {
				rest.insert(id)
			}
			return nil
		})
	}
	_ = eg.Wait()

	if missing.Load() {
		return nil, nil, ErrInternalData
	}
	return next.slice(), rest.slice(), nil
}

func (r *resolver[ID]) admit(deps *syncSet[ID]) bool {
	switch r.strategy {
	case DeepestRule:
		return deps.every(func(dep ID) bool {
			_, ok := r.placed[dep]
			return ok
		})
	default:
		frontier := r.sets[len(r.sets)-1]
		return deps.any(frontier.Contains)
	}
}
