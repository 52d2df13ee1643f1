package coro

import (
	"runtime"
	"sync/atomic"
)

// spinlock is a short-hold busy-wait lock used inside the sync primitives'
// suspension paths, where invoking the scheduler's own blocking mutex would
// risk recursing into the scheduler from a task that is itself a scheduler
// worker. Every critical section guarded by a spinlock is a handful of slice
// operations — enqueue or dequeue one task — never a blocking call.
type spinlock struct {
	held atomic.Bool
}

// Lock spins until the lock is acquired, yielding the goroutine's current
// timeslice between attempts so a single-core or oversubscribed scheduler
// still makes progress.
func (s *spinlock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// Unlock releases the lock. Unlock on an unheld spinlock is a programming
// error and left undefined.
func (s *spinlock) Unlock() {
	s.held.Store(false)
}
