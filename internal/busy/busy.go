// Package busy tracks which entities have a request in flight so their
// controls can be disabled. The flags are advisory; the server remains the
// authority on conflicting mutations.
package busy

import "sync"

type Set[K comparable] struct {
	mu    sync.Mutex
	items map[K]struct{}
}

func NewSet[K comparable]() *Set[K] {
	return &Set[K]{items: make(map[K]struct{})}
}

// TryAcquire marks key busy and reports whether it was free.
func (s *Set[K]) TryAcquire(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = struct{}{}
	return true
}

func (s *Set[K]) Release(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func (s *Set[K]) Is(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

func (s *Set[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Flag is a single busy bit, e.g. "submitting" or "paying".
type Flag struct {
	mu  sync.Mutex
	set bool
}

func (f *Flag) TryAcquire() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set {
		return false
	}
	f.set = true
	return true
}

func (f *Flag) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = false
}

func (f *Flag) Is() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}
