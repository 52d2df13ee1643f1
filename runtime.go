package coro

import "sync/atomic"

// Runtime is the explicit handle owning a scheduler and its configuration.
// Unlike a process-global scheduler pointer, every Task is constructed
// against a specific *Runtime, and the package-level Go/Park/Yield functions
// operate only through the handle reachable from the task they're given,
// never through ambient global state.
type Runtime struct {
	cfg       config
	scheduler *scheduler
	nextID    atomic.Uint64
}

// NewRuntime constructs a Runtime with its scheduler ready to accept tasks,
// but with no workers yet spawned — workers are grown lazily as tasks are
// enqueued (see scheduler.growLocked).
func NewRuntime(opts ...Option) (*Runtime, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{cfg: cfg}
	rt.scheduler = newScheduler(rt, cfg.MaxWorkers)
	return rt, nil
}

func (rt *Runtime) nextTaskID() uint64 { return rt.nextID.Add(1) }

// NewTask constructs a task bound to this runtime. Equivalent to
// coro.NewTask(rt, fn); provided so callers already holding a *Runtime don't
// need the package-level constructor.
func (rt *Runtime) NewTask(fn func(*Task)) *Task {
	return NewTask(rt, fn)
}

// StartMain is the bootstrap entry point: it submits main for execution,
// blocks until main's status becomes Done, then stops the scheduler (joining
// every worker goroutine) before returning. Calling StartMain a second time
// on a *Runtime whose scheduler has already stopped returns
// ErrSchedulerStopped rather than silently becoming a no-op, since unlike
// a shared global scheduler, a Go *Runtime's scheduler cannot be
// resurrected once stopped.
func (rt *Runtime) StartMain(main *Task) error {
	if main == nil {
		return ErrNoMainTask
	}
	rt.scheduler.mu.Lock()
	stopped := rt.scheduler.stopped
	rt.scheduler.mu.Unlock()
	if stopped {
		return ErrSchedulerStopped
	}

	rt.scheduler.setMain(main)
	Go(main)
	rt.scheduler.waitForMain()
	rt.scheduler.stop()
	return nil
}
