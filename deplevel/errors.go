package deplevel

import "errors"

var (
	// ErrIslandsOrCircular means resolution could not make progress: there is
	// no dependency-free identifier to start from, or the remaining
	// identifiers form a cycle or depend on identifiers that never get a
	// level.
	ErrIslandsOrCircular = errors.New("there are islands or circular reference dependencies")

	// ErrInternalData means an identifier that was partitioned as having
	// dependencies had none at lookup time.
	ErrInternalData = errors.New("internal data error")

	// ErrConsumed is returned when Resolve is called on a graph that was
	// already resolved.
	ErrConsumed = errors.New("graph has already been resolved")
)
