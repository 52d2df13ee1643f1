//go:build linux || darwin

package net

import (
	stdnet "net"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/unnamed2/libcoro"
	"github.com/unnamed2/libcoro/reactor"
)

// Socket is a non-blocking IPv4 TCP socket registered with a reactor.
type Socket struct {
	fd     int
	r      reactor.Reactor
	closed atomic.Bool
}

// NewSocket creates a non-blocking SOCK_STREAM socket with SO_REUSEADDR set.
func NewSocket(r reactor.Reactor) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &Socket{fd: fd, r: r}, nil
}

func parseIPv4(addr string) (out [4]byte) {
	ip := stdnet.ParseIP(addr).To4()
	copy(out[:], ip)
	return out
}

// Bind binds the socket to addr:port.
func (s *Socket) Bind(addr string, port int) error {
	return unix.Bind(s.fd, &unix.SockaddrInet4{Port: port, Addr: parseIPv4(addr)})
}

// Listen marks the socket as a passive listener with the given backlog.
func (s *Socket) Listen(backlog int) error {
	return unix.Listen(s.fd, backlog)
}

// FD returns the raw file descriptor, for tests that need to assert on it.
func (s *Socket) FD() int { return s.fd }

// Close deregisters the socket from its reactor (if still registered) and
// closes the underlying descriptor. Safe to call more than once; only the
// first call actually closes the fd.
func (s *Socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = s.r.Deregister(s.fd)
	return unix.Close(s.fd)
}

// awaitReady parks t, arms a oneshot registration for ev on s, and hands
// control back to the scheduler until the reactor fires the registration
// and calls coro.Go(t).
func awaitReady(t *coro.Task, s *Socket, ev reactor.IOEvents) error {
	coro.Park(t)
	if err := s.r.Register(s.fd, ev, func(reactor.IOEvents) {
		coro.Go(t)
	}); err != nil {
		// The registration never happened, so nothing will wake t on its
		// own; make it ready immediately so Suspend returns promptly, then
		// surface the registration error to the caller.
		coro.Go(t)
		t.Suspend()
		return err
	}
	t.Suspend()
	return nil
}

// Accept suspends t until an incoming connection is ready, then returns the
// accepted socket registered against the same reactor as s.
func Accept(t *coro.Task, s *Socket) (*Socket, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	for {
		nfd, _, err := unix.Accept4(s.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err == nil {
			return &Socket{fd: nfd, r: s.r}, nil
		}
		if err == unix.EINTR {
			continue
		}
		if err != unix.EAGAIN {
			return nil, err
		}
		if err := awaitReady(t, s, reactor.EventRead); err != nil {
			return nil, err
		}
	}
}

// Recv reads into buf, suspending t on EAGAIN. If waitAll is true, Recv
// keeps re-arming until buf is full or the peer closes (a short read is
// then returned rather than treated as an error) or an error occurs;
// otherwise it returns as soon as at least one byte has been read.
// A return of (0, nil) indicates an orderly close by the peer.
func Recv(t *coro.Task, s *Socket, buf []byte, waitAll bool) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	total := 0
	for total < len(buf) {
		n, err := unix.Read(s.fd, buf[total:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN {
				if werr := awaitReady(t, s, reactor.EventRead); werr != nil {
					return total, werr
				}
				continue
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += n
		if !waitAll {
			return total, nil
		}
	}
	return total, nil
}

// Send writes all of buf, suspending t on EAGAIN between partial writes.
func Send(t *coro.Task, s *Socket, buf []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	total := 0
	for total < len(buf) {
		n, err := unix.Write(s.fd, buf[total:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.EAGAIN {
				if werr := awaitReady(t, s, reactor.EventWrite); werr != nil {
					return total, werr
				}
				continue
			}
			return total, err
		}
		total += n
	}
	return total, nil
}

// Connect is synchronous. A non-blocking, awaitable connect is deliberately
// left unbuilt rather than invented, since this runtime's design notes
// leave it an open question.
func Connect(s *Socket, addr string, port int) error {
	err := unix.Connect(s.fd, &unix.SockaddrInet4{Port: port, Addr: parseIPv4(addr)})
	if err != nil && err != unix.EINPROGRESS {
		return err
	}
	return nil
}
