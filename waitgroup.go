package coro

import "sync/atomic"

// WaitGroup is a task-aware decrement-to-zero barrier, analogous to
// sync.WaitGroup but with tasks, not OS threads, as waiters.
//
// Reusable: a WaitGroup may be Add-ed to again after draining and re-awaited
// for a later generation. It is not safe to call Add concurrently with the
// terminal Done that drives pending to zero — callers must either fully
// drain before the next Add, or issue the next generation's Adds before any
// Done can race the counter to zero. The runtime does not enforce this,
// same as sync.WaitGroup's own reuse contract.
type WaitGroup struct {
	pending atomic.Int64
	sl      spinlock
	waiters []*Task
}

// NewWaitGroup constructs a WaitGroup with a zero counter.
func NewWaitGroup() *WaitGroup { return &WaitGroup{} }

// Add adds delta (which may be negative) to the counter.
func (wg *WaitGroup) Add(delta int64) {
	wg.pending.Add(delta)
}

// Done decrements the counter by one. If this is the decrement that reaches
// zero, every current waiter is woken.
func (wg *WaitGroup) Done() {
	if wg.pending.Add(-1) != 0 {
		return
	}
	wg.sl.Lock()
	waiters := wg.waiters
	wg.waiters = nil
	wg.sl.Unlock()
	for _, w := range waiters {
		Go(w)
	}
}

// Wait suspends t until the counter reaches zero.
func (wg *WaitGroup) Wait(t *Task) {
	if wg.pending.Load() == 0 {
		return
	}
	wg.sl.Lock()
	if wg.pending.Load() == 0 {
		wg.sl.Unlock()
		return
	}
	Park(t)
	wg.waiters = append(wg.waiters, t)
	wg.sl.Unlock()
	t.handoff()
}
