package deplevel

import (
	"fmt"
	"runtime"
	"strings"
)

// Strategy selects the rule used to admit a pending identifier into the
// level currently being built.
type Strategy int

const (
	// FrontierRule admits an identifier when any of its dependencies is in
	// the immediately preceding level. An identifier whose dependencies are
	// spread over non-adjacent levels can be admitted before its deepest
	// dependency.
	FrontierRule Strategy = iota
	// DeepestRule admits an identifier once every dependency holds a level,
	// which places it exactly one level past its deepest dependency.
	DeepestRule
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case FrontierRule:
		return "frontier"
	case DeepestRule:
		return "deepest"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "frontier" or "deepest" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "frontier":
		return FrontierRule, nil
	case "deepest":
		return DeepestRule, nil
	default:
		return FrontierRule, fmt.Errorf("unknown strategy %q: must be 'frontier' or 'deepest'", name)
	}
}

type options struct {
	workers  int
	strategy Strategy
}

func defaultOptions() options {
	return options{
		workers:  runtime.GOMAXPROCS(0),
		strategy: FrontierRule,
	}
}

// Option configures a Graph.
type Option func(*options)

// WithWorkers bounds the number of goroutines used by Add and by every
// resolution pass. Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithStrategy selects the admission rule used by Resolve.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}
