//go:build linux

package reactor

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type fdInfo struct {
	callback Callback
	events   IOEvents
}

// Epoll is the Linux readiness-poll backend, built on
// epoll_create1/epoll_wait/epoll_ctl with EPOLLONESHOT per registration so
// each accept/recv/send awaitable re-arms its own registration explicitly
// rather than receiving repeated level-triggered wakeups.
type Epoll struct {
	epfd   int
	fdMu   sync.RWMutex
	fds    map[int]*fdInfo
	closed atomic.Bool

	// wakeR/wakeW are a self-pipe used to unblock a Run that is parked in
	// epoll_wait(-1) when Close is called from another goroutine.
	wakeR, wakeW int
}

// NewEpoll creates an epoll instance and its wake-up pipe.
func NewEpoll() (*Epoll, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}
	e := &Epoll{epfd: epfd, fds: make(map[int]*fdInfo), wakeR: fds[0], wakeW: fds[1]}
	wakeEv := &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(e.wakeR)}
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, e.wakeR, wakeEv); err != nil {
		_ = unix.Close(epfd)
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}
	return e, nil
}

func toEpollMask(ev IOEvents) uint32 {
	var m uint32
	if ev&EventRead != 0 {
		m |= unix.EPOLLIN
	}
	if ev&EventWrite != 0 {
		m |= unix.EPOLLOUT
	}
	return m
}

func fromEpollMask(m uint32) IOEvents {
	var ev IOEvents
	if m&unix.EPOLLIN != 0 {
		ev |= EventRead
	}
	if m&unix.EPOLLOUT != 0 {
		ev |= EventWrite
	}
	if m&unix.EPOLLERR != 0 {
		ev |= EventError
	}
	if m&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		ev |= EventHangup
	}
	return ev
}

// Register arms fd for events, oneshot.
func (e *Epoll) Register(fd int, events IOEvents, cb Callback) error {
	if e.closed.Load() {
		return ErrClosed
	}
	e.fdMu.Lock()
	if _, ok := e.fds[fd]; ok {
		e.fdMu.Unlock()
		return ErrAlreadyRegistered
	}
	e.fds[fd] = &fdInfo{callback: cb, events: events}
	e.fdMu.Unlock()

	ev := &unix.EpollEvent{Events: toEpollMask(events) | unix.EPOLLONESHOT, Fd: int32(fd)}
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
		e.fdMu.Lock()
		delete(e.fds, fd)
		e.fdMu.Unlock()
		return err
	}
	return nil
}

// Modify re-arms a registration still present in e.fds, changing its
// interest mask, without the caller tearing down and re-adding it via
// Deregister/Register. It must be called before the registration's next
// delivery, not from inside the callback that delivery invokes: Run removes
// the fd from e.fds (and from epoll's interest list) before calling the
// callback, so by the time a oneshot registration's callback is running,
// Modify on that same fd returns ErrNotRegistered. A callback that wants to
// keep listening on its own fd re-arms via a fresh Register call instead.
func (e *Epoll) Modify(fd int, events IOEvents) error {
	e.fdMu.Lock()
	info, ok := e.fds[fd]
	if !ok {
		e.fdMu.Unlock()
		return ErrNotRegistered
	}
	info.events = events
	e.fdMu.Unlock()

	ev := &unix.EpollEvent{Events: toEpollMask(events) | unix.EPOLLONESHOT, Fd: int32(fd)}
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, fd, ev)
}

func (e *Epoll) Deregister(fd int) error {
	e.fdMu.Lock()
	if _, ok := e.fds[fd]; !ok {
		e.fdMu.Unlock()
		return ErrNotRegistered
	}
	delete(e.fds, fd)
	e.fdMu.Unlock()
	_ = unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	return nil
}

// Run blocks in epoll_wait, dispatching one callback per ready fd, until
// Close unblocks it via the wake pipe.
func (e *Epoll) Run() {
	events := make([]unix.EpollEvent, 256)
	for {
		n, err := unix.EpollWait(e.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if e.closed.Load() {
				return
			}
			continue
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == e.wakeR {
				if e.closed.Load() {
					return
				}
				continue
			}

			e.fdMu.Lock()
			info, ok := e.fds[fd]
			if ok {
				delete(e.fds, fd)
			}
			e.fdMu.Unlock()
			if ok {
				// EPOLLONESHOT only disables the registration; the fd stays
				// in the kernel's interest list until explicitly removed.
				// Without this delete, a later Register on the same fd
				// would retry EPOLL_CTL_ADD and fail with EEXIST.
				_ = unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, fd, nil)
			}
			if !ok || info.callback == nil {
				continue
			}
			info.callback(fromEpollMask(events[i].Events))
		}
	}
}

func (e *Epoll) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	_, _ = unix.Write(e.wakeW, []byte{0})
	_ = unix.Close(e.wakeR)
	_ = unix.Close(e.wakeW)
	return unix.Close(e.epfd)
}
