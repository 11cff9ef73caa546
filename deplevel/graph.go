package deplevel

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Graph accumulates identifiers and their dependencies ahead of resolution.
type Graph[ID comparable] struct {
	// mu is held shared for a whole Add batch and exclusively while Resolve
	// takes the containers, so a batch is either fully ingested or rejected.
	mu       sync.RWMutex
	ids      *syncSet[ID]
	deps     *depMap[ID]
	opts     options
	consumed atomic.Bool
}

// New creates an empty graph.
func New[ID comparable](opts ...Option) *Graph[ID] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Graph[ID]{
		ids:  newSyncSet[ID](),
		deps: newDepMap[ID](),
		opts: o,
	}
}

// Add ingests a batch of items. Items are processed concurrently and in no
// particular order. Adding the same identifier more than once merges its
// dependencies with the ones already recorded.
//
// Add is safe to call from multiple goroutines. A batch that races with
// Resolve is either ingested before resolution starts or rejected. Calling
// Add on a resolved graph panics.
func (g *Graph[ID]) Add(items ...Item[ID]) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.consumed.Load() {
		panic("deplevel: Add called on a graph that has already been resolved")
	}

	var eg errgroup.Group
	eg.SetLimit(g.opts.workers)
	for _, item := range items {
		eg.Go(func() error {
			g.insert(item)
			return nil
		})
	}
	_ = eg.Wait()
}

// AddAll ingests a slice of concrete item values.
func AddAll[ID comparable, T Item[ID]](g *Graph[ID], items []T) {
	batch := make([]Item[ID], len(items))
	for i, item := range items {
		batch[i] = item
	}
	g.Add(batch...)
}

func (g *Graph[ID]) insert(item Item[ID]) {
	id := item.ID()
	if deps := item.Deps(); len(deps) > 0 {
		set := g.deps.entry(id)
		for _, dep := range deps {
			set.insert(dep)
		}
	}
	g.ids.insert(id)
}

// Len returns the number of distinct identifiers added so far.
func (g *Graph[ID]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.consumed.Load() {
		return 0
	}
	return g.ids.len()
}
