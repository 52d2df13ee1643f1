package coro

import (
	"fmt"
	"sync/atomic"
)

// Status is a Task's position in its lifecycle.
type Status int32

const (
	// Created is the state of a Task that has never been resumed.
	Created Status = iota
	// Ready means the task is eligible for dispatch and is (or is about to
	// be) a member of the scheduler's ready queue.
	Ready
	// Running means a worker is currently executing the task's body.
	Running
	// Suspended means the task has handed control back to its worker and is
	// parked on some external event (I/O completion, lock release, signal,
	// barrier). Ownership of waking it belongs to whatever queue it was
	// stashed in.
	Suspended
	// Done means the task's body has returned or panicked; it will not run
	// again.
	Done
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Task is a suspendable unit of work: a goroutine that runs a user function
// to completion, but which may, at any point inside that function, suspend
// itself on an awaitable (a mutex, a condition variable, a wait-group, or an
// I/O operation) and be resumed later by a scheduler worker or the reactor.
//
// Since Go has no stackful coroutine primitive, suspension is realized as a
// permit/parked channel rendezvous: the task's goroutine blocks on permit
// until granted execution, and signals parked exactly once per resume to
// report whether it suspended or completed. A Task is never resumed
// concurrently with itself — resume is not reentrant.
type Task struct {
	id     uint64
	rt     *Runtime
	fn     func(*Task)
	status atomic.Int32
	permit chan struct{}
	parked chan struct{}

	// main marks the task passed to StartMain; only the scheduler reads
	// this, to know when to signal completion of the whole run.
	main bool
}

// NewTask constructs a Task bound to rt, running fn once resumed. The
// returned Task starts in Created and is not scheduled; call Go(task) or
// StartMain(task) to begin running it.
func NewTask(rt *Runtime, fn func(*Task)) *Task {
	if rt == nil {
		panic("coro: NewTask requires a non-nil *Runtime")
	}
	if fn == nil {
		panic("coro: NewTask requires a non-nil function")
	}
	t := &Task{
		id:     rt.nextTaskID(),
		rt:     rt,
		fn:     fn,
		permit: make(chan struct{}),
		parked: make(chan struct{}),
	}
	t.status.Store(int32(Created))
	go t.loop()
	return t
}

// ID returns the task's runtime-unique identifier, used in logging and
// metrics labels.
func (t *Task) ID() uint64 { return t.id }

// Runtime returns the *Runtime this task is bound to, so code holding only
// the *Task can spawn further tasks on the same runtime without a second
// handle being threaded through.
func (t *Task) Runtime() *Runtime { return t.rt }

// Status reports the task's current lifecycle state.
func (t *Task) Status() Status { return t.loadStatus() }

// Suspend hands control back to whichever worker is blocked in resume(),
// and blocks until a future Go(t) call wakes it. Callers outside this
// package implementing their own awaitable (see the net package) must call
// Park(t) and stash a wake-capable reference to t — a reactor registration,
// a waiter queue entry — before calling Suspend, not after: once Park takes
// effect a concurrent Go(t) becomes possible, and any reference not yet
// stashed cannot be woken.
func (t *Task) Suspend() { t.handoff() }

// loadStatus loads the current lifecycle state.
func (t *Task) loadStatus() Status { return Status(t.status.Load()) }

// loop is the body of the goroutine backing every Task. It waits for the
// first resume, runs fn to completion (recovering and routing panics through
// the runtime's Policy), and reports Done exactly once.
func (t *Task) loop() {
	<-t.permit
	t.status.Store(int32(Running))
	defer func() {
		if r := recover(); r != nil {
			t.rt.handlePanic(t, r)
		}
		t.status.Store(int32(Done))
		t.parked <- struct{}{}
	}()
	t.fn(t)
}

// handoff is called from within the task's own goroutine by every awaitable
// that suspends it: it reports back to whichever worker is blocked in
// resume(), then blocks until that (or some later) worker grants the next
// permit. Callers are expected to have already set the task's status (to
// Suspended via Park, or to Ready for a plain yield) before calling handoff.
func (t *Task) handoff() {
	t.parked <- struct{}{}
	<-t.permit
	t.status.Store(int32(Running))
}

// resume runs t until its next suspension point or completion. Precondition:
// loadStatus() ∈ {Ready, Created}. Not safe to call concurrently on the same
// task: the scheduler never holds two outstanding resume() calls against the
// same *Task, and the CAS below guards against that invariant breaking
// silently by returning ErrTaskAlreadyResumed instead of corrupting t's
// permit/parked rendezvous.
func (t *Task) resume() error {
	if !t.status.CompareAndSwap(int32(Ready), int32(Running)) &&
		!t.status.CompareAndSwap(int32(Created), int32(Running)) {
		return ErrTaskAlreadyResumed
	}
	t.permit <- struct{}{}
	<-t.parked
	return nil
}

// IsDone reports whether the task's body has returned or panicked.
func (t *Task) IsDone() bool { return t.loadStatus() == Done }

// destroy releases a completed task. Go's garbage collector reclaims the
// goroutine and channels on its own once loop() returns, so destroy exists
// to make explicit the release step and catch the programming error of
// destroying a task that never ran to completion.
func (t *Task) destroy() error {
	if !t.IsDone() {
		return ErrTaskNotDone
	}
	return nil
}
