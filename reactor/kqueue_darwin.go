//go:build darwin

package reactor

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type kqueueFDInfo struct {
	callback Callback
	events   IOEvents
}

// Kqueue is the Darwin/BSD readiness-poll backend. Registrations use
// EV_ONESHOT, which the kernel auto-clears after the first delivery — unlike
// epoll's EPOLLONESHOT, no explicit removal step is needed between delivery
// and a caller re-arming the fd with a fresh Register.
type Kqueue struct {
	kq           int
	fdMu         sync.RWMutex
	fds          map[int]*kqueueFDInfo
	closed       atomic.Bool
	wakeR, wakeW int
}

// NewKqueue creates a kqueue instance and its wake-up pipe.
func NewKqueue() (*Kqueue, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		_ = unix.Close(kq)
		return nil, err
	}
	k := &Kqueue{kq: kq, fds: make(map[int]*kqueueFDInfo), wakeR: fds[0], wakeW: fds[1]}
	wakeEv := []unix.Kevent_t{{Ident: uint64(k.wakeR), Filter: unix.EVFILT_READ, Flags: unix.EV_ADD | unix.EV_ENABLE}}
	if _, err := unix.Kevent(k.kq, wakeEv, nil, nil); err != nil {
		_ = unix.Close(kq)
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}
	return k, nil
}

func eventsToKevents(fd int, events IOEvents, flags uint16) []unix.Kevent_t {
	var kevents []unix.Kevent_t
	if events&EventRead != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: flags})
	}
	if events&EventWrite != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}
	return kevents
}

func keventToEvents(kev *unix.Kevent_t) IOEvents {
	var events IOEvents
	switch kev.Filter {
	case unix.EVFILT_READ:
		events |= EventRead
	case unix.EVFILT_WRITE:
		events |= EventWrite
	}
	if kev.Flags&unix.EV_ERROR != 0 {
		events |= EventError
	}
	if kev.Flags&unix.EV_EOF != 0 {
		events |= EventHangup
	}
	return events
}

func (k *Kqueue) Register(fd int, events IOEvents, cb Callback) error {
	if k.closed.Load() {
		return ErrClosed
	}
	k.fdMu.Lock()
	if _, ok := k.fds[fd]; ok {
		k.fdMu.Unlock()
		return ErrAlreadyRegistered
	}
	k.fds[fd] = &kqueueFDInfo{callback: cb, events: events}
	k.fdMu.Unlock()

	kevents := eventsToKevents(fd, events, unix.EV_ADD|unix.EV_ENABLE|unix.EV_ONESHOT)
	if len(kevents) > 0 {
		if _, err := unix.Kevent(k.kq, kevents, nil, nil); err != nil {
			k.fdMu.Lock()
			delete(k.fds, fd)
			k.fdMu.Unlock()
			return err
		}
	}
	return nil
}

// Modify re-arms a registration still present in k.fds, changing its
// interest mask, without the caller tearing down and re-adding it via
// Deregister/Register. Like the epoll backend, it must be called before the
// registration's next delivery: Run removes the fd from k.fds before calling
// its callback, so calling Modify on that same fd from inside the callback
// returns ErrNotRegistered. A callback that wants to keep listening on its
// own fd re-arms via a fresh Register call instead.
func (k *Kqueue) Modify(fd int, events IOEvents) error {
	k.fdMu.Lock()
	info, ok := k.fds[fd]
	if !ok {
		k.fdMu.Unlock()
		return ErrNotRegistered
	}
	info.events = events
	k.fdMu.Unlock()

	kevents := eventsToKevents(fd, events, unix.EV_ADD|unix.EV_ENABLE|unix.EV_ONESHOT)
	if len(kevents) > 0 {
		if _, err := unix.Kevent(k.kq, kevents, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kqueue) Deregister(fd int) error {
	k.fdMu.Lock()
	info, ok := k.fds[fd]
	if !ok {
		k.fdMu.Unlock()
		return ErrNotRegistered
	}
	delete(k.fds, fd)
	k.fdMu.Unlock()

	kevents := eventsToKevents(fd, info.events, unix.EV_DELETE)
	if len(kevents) > 0 {
		_, _ = unix.Kevent(k.kq, kevents, nil, nil)
	}
	return nil
}

func (k *Kqueue) Run() {
	buf := make([]unix.Kevent_t, 256)
	for {
		n, err := unix.Kevent(k.kq, nil, buf, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if k.closed.Load() {
				return
			}
			continue
		}
		for i := 0; i < n; i++ {
			fd := int(buf[i].Ident)
			if fd == k.wakeR {
				if k.closed.Load() {
					return
				}
				continue
			}

			k.fdMu.Lock()
			info, ok := k.fds[fd]
			if ok {
				delete(k.fds, fd)
			}
			k.fdMu.Unlock()
			if !ok || info.callback == nil {
				continue
			}
			info.callback(keventToEvents(&buf[i]))
		}
	}
}

func (k *Kqueue) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return nil
	}
	_, _ = unix.Write(k.wakeW, []byte{0})
	_ = unix.Close(k.wakeR)
	_ = unix.Close(k.wakeW)
	return unix.Close(k.kq)
}
