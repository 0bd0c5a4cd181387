// Package services holds the synchronization controllers: the only
// components permitted to mutate persisted state. Every mutation goes to the
// record store first and is followed by a full refresh of the owner's cached
// snapshot rather than a local patch.
package services

import (
	"context"
	"sync"

	"masareef/internal/amqp"
	"masareef/internal/cache"
)

// ChangePublisher announces committed mutations to the export pipeline.
// Publishing is best effort and never fails a mutation.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// collection is one owner's cached snapshot plus the controller bookkeeping:
// an in-flight gauge backing the loading flag and monotonic refresh tokens.
// Tokens close the stale-response race: a refresh response is applied only if
// no response issued after it has already been applied, so the last *issued*
// refresh wins even when responses arrive out of order.
type collection[T any] struct {
	snap *cache.Snapshot[T]

	mu       sync.Mutex
	inflight int
	issued   uint64
	applied  uint64
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{snap: cache.NewSnapshot[T]()}
}

// beginRefresh issues the next token and raises the loading gauge. It must
// be paired with endRefresh on every exit path.
func (c *collection[T]) beginRefresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.issued++
	return c.issued
}

func (c *collection[T]) endRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
}

// apply installs records unless a newer response already landed. Reports
// whether the snapshot was replaced.
func (c *collection[T]) apply(token uint64, records []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token < c.applied {
		return false
	}
	c.applied = token
	c.snap.Replace(records)
	return true
}

// loading reports whether any refresh is in flight.
func (c *collection[T]) loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// loaded reports whether any refresh response has ever been applied.
func (c *collection[T]) loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied > 0
}
