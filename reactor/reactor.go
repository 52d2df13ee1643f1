// Package reactor implements the runtime's cross-platform I/O backends: a
// readiness-poll backend (epoll on Linux, kqueue on Darwin/BSD) behind a
// shared Reactor capability interface, and a completion-port backend
// (Windows) with its own shape, since IOCP's submit-then-complete model
// doesn't fit a register-for-readiness interface. The net package's
// awaitables are the only callers; user code never imports this package
// directly.
package reactor

import "errors"

// IOEvents is a bitmask of readiness/completion conditions.
type IOEvents uint32

const (
	EventRead IOEvents = 1 << iota
	EventWrite
	EventError
	EventHangup
)

// Callback is invoked by a reactor's Run loop when a registration's event
// fires. It must not block — it runs inline on the dedicated reactor
// goroutine, and a blocked callback stalls every other pending completion.
type Callback func(IOEvents)

// Reactor is the capability the epoll and kqueue backends implement.
// Awaitables program against this interface, never a concrete backend, so
// callers can use whichever one net.NewReactor selects for the build.
//
// Every registration is oneshot: once Run delivers an event for fd, fd is no
// longer armed, and both backends remove fd's bookkeeping before invoking
// its callback — so Register, not Modify, is how an awaitable re-arms
// itself for another round (see the net package's Accept/Recv loops).
// Modify exists for re-arming a still-registered fd from outside its firing
// callback, e.g. to change the interest mask between rounds without a
// Deregister/Register round trip.
type Reactor interface {
	Register(fd int, events IOEvents, cb Callback) error
	Modify(fd int, events IOEvents) error
	Deregister(fd int) error
	// Run blocks servicing completions until Close is called from another
	// goroutine. The caller runs it on a dedicated goroutine of its own
	// (go r.Run()); the reactor is not a Task, and a *coro.Runtime does not
	// own or start it.
	Run()
	Close() error
}

var (
	ErrClosed            = errors.New("reactor: closed")
	ErrAlreadyRegistered = errors.New("reactor: fd already registered")
	ErrNotRegistered     = errors.New("reactor: fd not registered")
)
