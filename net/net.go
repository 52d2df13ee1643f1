// Package net provides the thin, non-blocking socket shim the reactor
// backends need: Socket construction, Bind/Listen/Close, and the
// Accept/Recv/Send/Connect awaitables that suspend a *coro.Task until their
// operation completes. Socket option tuning beyond what these operations
// require (SO_REUSEADDR, non-blocking mode) is explicitly out of scope, per
// this runtime's own design notes — callers needing more should open the
// socket themselves and wrap the raw descriptor.
package net

import "errors"

// ErrClosed is returned by an awaitable invoked on a socket that has already
// been closed.
var ErrClosed = errors.New("net: socket closed")
