package coro

import "fmt"

// Policy governs what a *Runtime does with a panic recovered from inside a
// task body. PolicyLog, which logs and continues, is the default.
type Policy int

const (
	// PolicySwallow recovers the panic and discards it. The task transitions
	// to Done as if it had returned normally.
	PolicySwallow Policy = iota
	// PolicyLog recovers the panic, logs it via the Runtime's logger, and
	// otherwise behaves like PolicySwallow. Default.
	PolicyLog
	// PolicyAbort re-panics on the task's own goroutine after recovery, which
	// crashes the process (matching the behavior of an unrecovered panic,
	// but after the runtime has had a chance to record it).
	PolicyAbort
)

func (p Policy) String() string {
	switch p {
	case PolicySwallow:
		return "swallow"
	case PolicyLog:
		return "log"
	case PolicyAbort:
		return "abort"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// PanicError wraps a value recovered from a task panic, along with the id of
// the task that panicked. It is only ever constructed internally by the
// runtime's panic handling; user code observes it through a Runtime's
// logger. Under PolicyAbort it is logged, and the original recovered value,
// not the PanicError, is what gets re-panicked.
type PanicError struct {
	TaskID   uint64
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: task %d panicked: %v", Namespace, e.TaskID, e.Recovered)
}

func (e *PanicError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(id=%d) panicked: %+v", e.TaskID, e.Recovered)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}
