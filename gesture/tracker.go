package gesture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Tracker runs a Source on its own goroutine, classifies every detection
// with the current profile and publishes the result into a Latest cell.
//
// A source that fails to open or errors out leaves the hand not detected
// until the tracker is started again; the failure is logged, never returned.
type Tracker struct {
	source  Source
	out     *Latest
	log     Logger
	profile atomic.Pointer[Profile]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(src Source, out *Latest, log Logger) *Tracker {
	t := &Tracker{source: src, out: out, log: orNop(log)}
	t.SetProfile(StandardProfile{})
	return t
}

// SetProfile changes the classification table for subsequent detections.
func (t *Tracker) SetProfile(p Profile) {
	if p == nil {
		p = StandardProfile{}
	}
	t.profile.Store(&p)
}

func (t *Tracker) Profile() Profile {
	return *t.profile.Load()
}

// Start launches the detector loop. Starting a running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

// Running reports whether the detector loop is still alive.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Stop cancels the detector loop, releases the source and waits for the loop
// to exit. The hand reads as not detected afterwards.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		if err := t.source.Close(); err != nil {
			t.log.Warnf("failed to close hand source: %v", err)
		}
		<-done
	}
	t.out.Clear()
}

func (t *Tracker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if err := t.source.Open(ctx); err != nil {
		t.log.Warnf("hand tracking unavailable: %v", err)
		t.out.Clear()
		return
	}
	if ctx.Err() != nil {
		_ = t.source.Close()
		return
	}
	t.log.Infof("hand tracking started")

	for {
		d, err := t.source.Next(ctx)
		if err != nil {
			t.out.Clear()
			if ctx.Err() == nil && !errors.Is(err, ErrSourceClosed) {
				t.log.Warnf("hand tracking stopped: %v", err)
				_ = t.source.Close()
			}
			return
		}
		t.out.Store(ClassifyDetection(d, t.Profile()))
	}
}
