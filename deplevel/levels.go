package deplevel

import (
	"iter"
	"sync"
)

// Level pairs a level number with the identifiers assigned to it.
type Level[ID comparable] struct {
	Level int
	IDs   *Set[ID]
}

// Levels is the immutable result of a resolution. The per-level sets are
// shared, never copied, so a Levels value is cheap to pass around.
type Levels[ID comparable] struct {
	sets  []*Set[ID]
	index func() map[ID]int
}

func newLevels[ID comparable](sets []*Set[ID]) *Levels[ID] {
	l := &Levels[ID]{sets: sets}
	l.index = sync.OnceValue(func() map[ID]int {
		idx := make(map[ID]int)
		for n, set := range l.sets {
			for id := range set.All() {
				idx[id] = n
			}
		}
		return idx
	})
	return l
}

// Len returns the number of levels.
func (l *Levels[ID]) Len() int {
	return len(l.sets)
}

// At returns the identifiers of level n.
func (l *Levels[ID]) At(n int) (*Set[ID], bool) {
	if n < 0 || n >= len(l.sets) {
		return nil, false
	}
	return l.sets[n], true
}

// LevelOf returns the level an identifier was assigned to.
func (l *Levels[ID]) LevelOf(id ID) (int, bool) {
	n, ok := l.index()[id]
	return n, ok
}

// SortedByLevel flattens all levels into one slice in ascending level order.
// The order inside a level is unspecified.
func (l *Levels[ID]) SortedByLevel() []ID {
	total := 0
	for _, set := range l.sets {
		total += set.Len()
	}
	out := make([]ID, 0, total)
	for _, set := range l.sets {
		for id := range set.All() {
			out = append(out, id)
		}
	}
	return out
}

// IterLevel yields every level in ascending order. The sequence can be
// iterated any number of times.
func (l *Levels[ID]) IterLevel() iter.Seq[Level[ID]] {
	return func(yield func(Level[ID]) bool) {
		for n, set := range l.sets {
			if !yield(Level[ID]{Level: n, IDs: set}) {
				return
			}
		}
	}
}

// RawLevel returns the level to identifier set mapping. The map is fresh on
// every call; the sets are shared and must be treated as read-only.
func (l *Levels[ID]) RawLevel() map[int]*Set[ID] {
	raw := make(map[int]*Set[ID], len(l.sets))
	for n, set := range l.sets {
		raw[n] = set
	}
	return raw
}
