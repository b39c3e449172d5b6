package shell

import "sync/atomic"

// ExitIntent records that the application should terminate rather than
// hide. It only ever goes from false to true.
type ExitIntent struct {
	set atomic.Bool
}

// Request sets the intent. It reports true only for the call that set it.
func (e *ExitIntent) Request() bool {
	return e.set.CompareAndSwap(false, true)
}

// Requested reports whether exit has been requested.
func (e *ExitIntent) Requested() bool {
	return e.set.Load()
}
