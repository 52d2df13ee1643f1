//go:build darwin

package net

import "github.com/unnamed2/libcoro/reactor"

// NewReactor constructs the kqueue-backed reactor used on Darwin/BSD builds.
func NewReactor() (reactor.Reactor, error) {
	return reactor.NewKqueue()
}
