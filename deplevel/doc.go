// Package deplevel groups the identifiers of a dependency graph into ordinal
// levels so that every level can be processed concurrently once all lower
// levels are complete.
//
// # Model
//
// Callers feed items into a Graph. An item is anything that satisfies the
// Item contract: it names itself with a comparable identifier and lists the
// identifiers it depends on. The graph only keeps identifiers; it never owns
// the items themselves.
//
//	g := deplevel.New[string]()
//	deplevel.AddAll(g, steps)
//	levels, err := g.Resolve(ctx)
//	if err != nil {
//	    // errors.Is(err, deplevel.ErrIslandsOrCircular) ...
//	}
//	for lv := range levels.IterLevel() {
//	    runConcurrently(lv.IDs.Slice())
//	}
//
// # Levels
//
// Identifiers without recorded dependencies form level 0. Every following
// level is built in one data-parallel pass over the still pending
// identifiers. With the default FrontierRule an identifier is admitted as
// soon as any of its dependencies sits in the immediately preceding level.
// DeepestRule admits an identifier only when all of its dependencies hold a
// level, which places it one past its deepest dependency.
//
// # Thread-Safety
//
// Add may be called concurrently from any number of goroutines, including
// while Resolve is starting: each batch either makes it into the resolution
// whole or is rejected. Resolve is a one-shot operation: it drains the graph, and the graph cannot be fed or
// resolved again afterwards. The returned Levels value is immutable and safe
// to share.
package deplevel
