package deplevel

import (
	"iter"
	"sync"
)

// Set is an immutable set of identifiers belonging to one level.
type Set[ID comparable] struct {
	items map[ID]struct{}
}

// Len returns the number of identifiers in the set.
func (s *Set[ID]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Contains reports whether id is a member of the set.
func (s *Set[ID]) Contains(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[id]
	return ok
}

// All yields every identifier in the set. The order is unspecified.
func (s *Set[ID]) All() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		if s == nil {
			return
		}
		for id := range s.items {
			if !yield(id) {
				return
			}
		}
	}
}

// Slice returns the identifiers in a new slice. The order is unspecified.
func (s *Set[ID]) Slice() []ID {
	out := make([]ID, 0, s.Len())
	for id := range s.All() {
		out = append(out, id)
	}
	return out
}

// syncSet is the mutable, mutex-guarded set used while the graph is built and
// while a level is being collected. Inserts are idempotent and commutative.
type syncSet[ID comparable] struct {
	mu    sync.RWMutex
	items map[ID]struct{}
}

func newSyncSet[ID comparable]() *syncSet[ID] {
	return &syncSet[ID]{items: make(map[ID]struct{})}
}

func (s *syncSet[ID]) insert(id ID) {
	s.mu.Lock()
	s.items[id] = struct{}{}
	s.mu.Unlock()
}

func (s *syncSet[ID]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// any reports whether pred holds for at least one member.
func (s *syncSet[ID]) any(pred func(ID) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.items {
		if pred(id) {
			return true
		}
	}
	return false
}

// every reports whether pred holds for all members.
func (s *syncSet[ID]) every(pred func(ID) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.items {
		if !pred(id) {
			return false
		}
	}
	return true
}

// slice returns a snapshot of the members.
func (s *syncSet[ID]) slice() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ID, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	return out
}

// freeze hands the members over to an immutable Set. The syncSet must not be
// used afterwards.
func (s *syncSet[ID]) freeze() *Set[ID] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items
	s.items = nil
	return &Set[ID]{items: items}
}

// depMap maps an identifier to the set of identifiers it depends on. Only
// identifiers with at least one dependency have an entry.
type depMap[ID comparable] struct {
	mu   sync.RWMutex
	deps map[ID]*syncSet[ID]
}

func newDepMap[ID comparable]() *depMap[ID] {
	return &depMap[ID]{deps: make(map[ID]*syncSet[ID])}
}

// entry returns the dependency set of id, creating it when missing.
func (m *depMap[ID]) entry(id ID) *syncSet[ID] {
	m.mu.RLock()
	set, ok := m.deps[id]
	m.mu.RUnlock()
	if ok {
		return set
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok = m.deps[id]; !ok {
		set = newSyncSet[ID]()
		m.deps[id] = set
	}
	return set
}

func (m *depMap[ID]) get(id ID) (*syncSet[ID], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.deps[id]
	return set, ok
}
