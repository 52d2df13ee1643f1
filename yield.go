package coro

// Yield suspends the calling task and immediately re-readies it, giving the
// scheduler a chance to run other ready tasks first. Unlike Park, which
// leaves waking to some external event, Yield always re-enqueues itself.
//
// A naive yield awaitable could suspend and rely on a worker noticing that
// status is still "ready" without re-enqueuing it explicitly, but that
// leaves ownership of the re-enqueue ambiguous between the awaitable and the
// worker. Here, Yield sets status to Ready and hands control back to the
// worker; the worker loop observes Ready on the return from resume() and
// pushes the task back onto the ready queue itself, so there is exactly one
// re-enqueue, not a race between two.
func Yield(t *Task) {
	t.status.Store(int32(Ready))
	t.handoff()
}
