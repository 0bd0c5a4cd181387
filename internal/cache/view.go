package cache

import "sync"

// View is a memoized derivation over a snapshot. Get always reflects the
// latest Replace; the memoization is an optimization, not part of the
// contract. The compute function must be pure and must not mutate or retain
// the records slice it is handed.
type View[T, R any] struct {
	snap    *Snapshot[T]
	compute func([]T) R

	mu     sync.Mutex
	seen   uint64
	valid  bool
	cached R
}

func NewView[T, R any](snap *Snapshot[T], compute func([]T) R) *View[T, R] {
	return &View[T, R]{snap: snap, compute: compute}
}

// Get returns the derived value for the current snapshot, recomputing only
// when the snapshot version has moved since the last call.
func (v *View[T, R]) Get() R {
	records, version := v.snap.Load()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.valid && v.seen == version {
		return v.cached
	}
	v.cached = v.compute(records)
	v.seen = version
	v.valid = true
	return v.cached
}
