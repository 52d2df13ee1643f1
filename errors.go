package coro

import "errors"

// Namespace prefixes every sentinel error this package returns, so callers
// can recognize them in logs without importing the package for an errors.Is
// check alone.
const Namespace = "coro"

var (
	// ErrSchedulerStopped is returned by StartMain when called on a *Runtime
	// whose scheduler has already shut down.
	ErrSchedulerStopped = errors.New(Namespace + ": scheduler is stopped")

	// ErrTaskAlreadyResumed is returned by resume if called re-entrantly on
	// a task that is already running — a programming error, not a race the
	// runtime recovers from.
	ErrTaskAlreadyResumed = errors.New(Namespace + ": task is already running")

	// ErrTaskNotDone is returned by destroy when called on a task that has
	// not completed, including one that was never resumed.
	ErrTaskNotDone = errors.New(Namespace + ": task is not done")

	// ErrInvalidConfig is returned when runtime configuration fails
	// validation before a *Runtime is constructed.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrNoMainTask is returned by StartMain if called with a nil task.
	ErrNoMainTask = errors.New(Namespace + ": start_main requires a non-nil task")
)
