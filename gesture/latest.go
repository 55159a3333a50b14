package gesture

import "sync/atomic"

// Latest is a last-value cell between the detector goroutine and the frame
// loop. Store and Load never block; a reader always sees a complete frame.
type Latest struct {
	v atomic.Pointer[HandFrame]
}

func (l *Latest) Store(f HandFrame) {
	l.v.Store(&f)
}

// Load returns the most recent frame, or the not-detected frame before the
// first Store.
func (l *Latest) Load() HandFrame {
	if f := l.v.Load(); f != nil {
		return *f
	}
	return HandFrame{}
}

// Clear publishes a not-detected frame.
func (l *Latest) Clear() {
	l.Store(HandFrame{})
}
