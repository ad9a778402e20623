package reactive

import "errors"

// ErrLoopClosed is returned when work is dispatched to a loop that has
// stopped. Callbacks queued after Close are discarded.
var ErrLoopClosed = errors.New("reactive: loop closed")

// ErrLoopRunning is returned by Run when the loop is already being run by
// another goroutine.
var ErrLoopRunning = errors.New("reactive: loop already running")

// ErrEffectCycle is the panic value used when an effect keeps invalidating
// itself by writing signals it reads.
var ErrEffectCycle = errors.New("reactive: effect re-triggered itself too many times")
