//go:build linux

package reactor

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestEpoll_RegisterFiresOnReadability(t *testing.T) {
	e, err := NewEpoll()
	if err != nil {
		t.Fatalf("NewEpoll: %v", err)
	}
	defer e.Close()

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		t.Fatalf("Pipe2: %v", err)
	}
	r, w := fds[0], fds[1]
	defer unix.Close(r)
	defer unix.Close(w)

	fired := make(chan IOEvents, 1)
	if err := e.Register(r, EventRead, func(ev IOEvents) { fired <- ev }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go e.Run()

	if _, err := unix.Write(w, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case ev := <-fired:
		if ev&EventRead == 0 {
			t.Fatalf("callback fired with events=%v, want EventRead set", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never fired after pipe became readable")
	}
}

// TestEpoll_ReregisterAfterFireSucceeds exercises the same fd being awaited
// more than once in sequence: register, let the oneshot registration fire,
// then register the same fd again. This is the shape every looping
// accept/recv/send awaitable needs (see net.Accept and net.Recv's waitAll
// path), and it previously failed with EEXIST because EPOLLONESHOT merely
// disables a registration rather than removing it from epoll's interest
// list.
func TestEpoll_ReregisterAfterFireSucceeds(t *testing.T) {
	e, err := NewEpoll()
	if err != nil {
		t.Fatalf("NewEpoll: %v", err)
	}
	defer e.Close()

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		t.Fatalf("Pipe2: %v", err)
	}
	r, w := fds[0], fds[1]
	defer unix.Close(r)
	defer unix.Close(w)

	go e.Run()

	for i := 0; i < 2; i++ {
		fired := make(chan IOEvents, 1)
		if err := e.Register(r, EventRead, func(ev IOEvents) { fired <- ev }); err != nil {
			t.Fatalf("Register round %d: %v", i, err)
		}
		if _, err := unix.Write(w, []byte("x")); err != nil {
			t.Fatalf("Write round %d: %v", i, err)
		}
		select {
		case ev := <-fired:
			if ev&EventRead == 0 {
				t.Fatalf("round %d: callback fired with events=%v, want EventRead set", i, ev)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d: callback never fired after pipe became readable", i)
		}
		// Drain so the next round's write makes the fd newly readable.
		var buf [1]byte
		if _, err := unix.Read(r, buf[:]); err != nil {
			t.Fatalf("drain round %d: %v", i, err)
		}
	}
}

func TestEpoll_RegisterTwiceOnSameFdErrors(t *testing.T) {
	e, err := NewEpoll()
	if err != nil {
		t.Fatalf("NewEpoll: %v", err)
	}
	defer e.Close()

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		t.Fatalf("Pipe2: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	if err := e.Register(fds[0], EventRead, func(IOEvents) {}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := e.Register(fds[0], EventRead, func(IOEvents) {}); err != ErrAlreadyRegistered {
		t.Fatalf("second Register = %v, want ErrAlreadyRegistered", err)
	}
}

func TestEpoll_CloseUnblocksRun(t *testing.T) {
	e, err := NewEpoll()
	if err != nil {
		t.Fatalf("NewEpoll: %v", err)
	}

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Close")
	}
}

func TestEpoll_RegisterAfterCloseReturnsErrClosed(t *testing.T) {
	e, err := NewEpoll()
	if err != nil {
		t.Fatalf("NewEpoll: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Register(0, EventRead, func(IOEvents) {}); err != ErrClosed {
		t.Fatalf("Register after Close = %v, want ErrClosed", err)
	}
}
