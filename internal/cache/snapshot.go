// Package cache holds the client-visible snapshot of a record collection and
// the machinery for derived views that stay consistent with it.
package cache

import "sync"

// Snapshot is the authoritative in-memory copy of one owner's collection.
// Replace swaps the whole slice under the lock, so a reader observes either
// the previous collection or the new one, never a partial mix. The version
// counter lets views detect staleness without comparing contents.
type Snapshot[T any] struct {
	mu      sync.RWMutex
	version uint64
	records []T
}

func NewSnapshot[T any]() *Snapshot[T] {
	return &Snapshot[T]{}
}

// Replace installs records as the new snapshot. The slice is owned by the
// snapshot afterwards; callers must not keep mutating it.
func (s *Snapshot[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.version++
}

// Records returns a copy of the current collection.
func (s *Snapshot[T]) Records() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Load returns the current collection together with its version, read under
// a single lock acquisition so the pair is consistent.
func (s *Snapshot[T]) Load() ([]T, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.version
}

// Version returns the current snapshot version.
func (s *Snapshot[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of records in the snapshot.
func (s *Snapshot[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
