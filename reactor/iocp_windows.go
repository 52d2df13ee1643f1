//go:build windows

package reactor

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Overlapped must embed windows.Overlapped as its first field so the kernel
// can write completion status through it, and so CompletionPort can recover
// the owning record from the *windows.Overlapped GetQueuedCompletionStatus
// hands back, via a pointer cast back to the enclosing struct.
type Overlapped struct {
	windows.Overlapped
	callback Callback
}

// CompletionPort is the Windows backend. Its shape differs from Reactor
// (epoll/kqueue's register-for-readiness interface) because IOCP's model is
// submit-then-complete: the asynchronous call (AcceptEx, WSARecv, WSASend)
// is issued by the net package at submission time, not deferred until some
// readiness event; CompletionPort only owns the blocking wait and callback
// dispatch once the kernel reports a submitted operation done.
type CompletionPort struct {
	handle windows.Handle
	closed atomic.Bool
}

// NewCompletionPort creates an I/O completion port not yet associated with
// any socket handle.
func NewCompletionPort() (*CompletionPort, error) {
	h, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return &CompletionPort{handle: h}, nil
}

// Attach associates fd with the port. Every socket used with Submit must be
// attached exactly once, before its first asynchronous operation.
func (c *CompletionPort) Attach(fd windows.Handle) error {
	_, err := windows.CreateIoCompletionPort(fd, c.handle, 0, 0)
	return err
}

// Submit records the callback an in-flight operation's Overlapped record
// should invoke once GetQueuedCompletionStatus reports it done. Callers must
// call Submit before issuing the underlying asynchronous Win32 call (e.g.
// AcceptEx/WSARecv/WSASend) against ov, not after — a completion can be
// dispatched to another OS thread the instant the call is made, and that
// dispatch reads ov's callback field, so it must already be set. This is the
// opposite order from epoll/kqueue's Register, which arms a callback for an
// event that has not happened yet; on Windows the operation begins at issue
// time, and Submit only attaches the callback to the record that issue will
// use, which is why it must run first.
func (c *CompletionPort) Submit(ov *Overlapped, cb Callback) {
	ov.callback = cb
}

// Run blocks in GetQueuedCompletionStatus, dispatching one callback per
// completed operation, until Close posts the sentinel that unblocks it.
func (c *CompletionPort) Run() {
	for {
		var transferred uint32
		var key uintptr
		var ov *windows.Overlapped
		err := windows.GetQueuedCompletionStatus(c.handle, &transferred, &key, &ov, windows.INFINITE)
		if ov == nil {
			if c.closed.Load() {
				return
			}
			continue
		}
		rec := (*Overlapped)(unsafe.Pointer(ov))
		if rec.callback == nil {
			continue
		}
		events := EventRead
		if err != nil {
			events = EventError
		}
		rec.callback(events)
	}
}

// Close unblocks a concurrent Run and releases the port handle.
func (c *CompletionPort) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = windows.PostQueuedCompletionStatus(c.handle, 0, 0, nil)
	return windows.CloseHandle(c.handle)
}
