//go:build linux

package net

import "github.com/unnamed2/libcoro/reactor"

// NewReactor constructs the epoll-backed reactor used on Linux builds.
func NewReactor() (reactor.Reactor, error) {
	return reactor.NewEpoll()
}
