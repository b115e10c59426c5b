package auth

import "sync/atomic"

const (
	latchIdle int32 = iota
	latchRunning
	latchDone
)

// Latch lets exactly one caller through, ever. The zero value is ready.
type Latch struct {
	state atomic.Int32
}

// Acquire returns true for the first caller only
func (l *Latch) Acquire() bool {
	return l.state.CompareAndSwap(latchIdle, latchRunning)
}

// Finish marks the guarded work as complete
func (l *Latch) Finish() {
	l.state.Store(latchDone)
}

// done reports whether the guarded work has completed
func (l *Latch) done() bool {
	return l.state.Load() == latchDone
}
