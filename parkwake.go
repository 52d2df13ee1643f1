package coro

// Park marks t as suspended if it is currently Running, Ready, or Created,
// and is a no-op otherwise (already Suspended or Done). It is idempotent
// against a double-park and against a race with an eager Go call: whichever
// of Park/Go observes the "winning" prior state determines the outcome.
// Running is the common case — every primitive in this package calls
// Park(t) on the task currently executing on its own goroutine, before
// stashing it in a waiter queue.
//
// Park only mutates status; it does not by itself hand control back to a
// worker. Callers that are suspending the currently-executing task must also
// call the task's internal handoff after stashing it in whatever waiter
// queue will eventually wake it with Go.
func Park(t *Task) {
	for {
		s := t.loadStatus()
		if s != Running && s != Ready && s != Created {
			return
		}
		if t.status.CompareAndSwap(int32(s), int32(Suspended)) {
			return
		}
	}
}

// Go marks t ready and enqueues it on its owning Runtime's scheduler, unless
// it is already Ready, Running, or Done, in which case it is a no-op. Safe
// to call from any goroutine, including scheduler workers, the reactor, and
// other tasks.
func Go(t *Task) {
	for {
		s := t.loadStatus()
		if s != Created && s != Suspended {
			return
		}
		if t.status.CompareAndSwap(int32(s), int32(Ready)) {
			t.rt.scheduler.enqueue(t)
			return
		}
	}
}
