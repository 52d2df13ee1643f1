// Package coro is a small concurrency runtime: a randomized, work-sharing
// task scheduler, a cross-platform I/O reactor (epoll on Linux, IOCP on
// Windows, kqueue on Darwin/BSD — see the reactor subpackage), and a set of
// task-aware synchronization primitives (Mutex, ConditionVariable,
// WaitGroup).
//
// Tasks
//
// A Task is a fire-and-forget, void-returning unit of work constructed with
// NewTask and started with Go or Runtime.StartMain. Since Go has no
// stackful-coroutine primitive, a Task's suspension points are realized as a
// permit/parked channel rendezvous between the task's own goroutine and
// whichever scheduler worker is resuming it — see the Task doc comment for
// the exact handshake. Suspension always happens through one of the
// primitives in this package or the net subpackage; a task must never block
// on a raw syscall or unbuffered channel send/receive of its own.
//
// Runtime
//
// There is no global scheduler. NewRuntime constructs an explicit *Runtime,
// and every Task is bound to one at construction. Configure worker pool
// size, panic policy, metrics, and logging via the With* options.
//
//	rt, err := coro.NewRuntime(coro.WithMaxWorkers(8), coro.WithPanicPolicy(coro.PolicyLog))
//	main := coro.NewTask(rt, func(t *coro.Task) { ... })
//	err = rt.StartMain(main)
//
// Synchronization
//
// Mutex, ConditionVariable, and WaitGroup all suspend Tasks, not OS threads;
// each of their blocking operations therefore takes the calling *Task as an
// explicit parameter (there is no ambient "current task" the runtime can
// recover on your behalf, unlike a real coroutine frame).
package coro
