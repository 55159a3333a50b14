package particleart

import (
	"context"

	"github.com/gekko3d/particleart/gesture"
)

// HandInput is the frame loop's view of the hand tracker. Frame is refreshed
// once per frame from the tracker's last published value.
type HandInput struct {
	Frame gesture.HandFrame

	latest  gesture.Latest
	tracker *gesture.Tracker
	ctx     context.Context
	enabled bool
}

// Enabled reports whether the detector loop should be running.
func (h *HandInput) Enabled() bool { return h.enabled }

// SetEnabled starts or stops the detector. Stopping releases the source and
// the hand reads as not detected from the next frame on.
func (h *HandInput) SetEnabled(on bool) {
	h.enabled = on
	if h.tracker == nil {
		return
	}
	if on {
		h.tracker.Start(h.ctx)
	} else {
		h.tracker.Stop()
	}
}

// SetProfile selects the gesture table for upcoming detections.
func (h *HandInput) SetProfile(p gesture.Profile) {
	if h.tracker != nil {
		h.tracker.SetProfile(p)
	}
}

// Publish stores f as if the tracker had produced it.
func (h *HandInput) Publish(f gesture.HandFrame) { h.latest.Store(f) }

// HandTrackingModule runs Source on a background goroutine. Without a source
// the hand is never detected.
type HandTrackingModule struct {
	Source   gesture.Source
	Disabled bool
	Context  context.Context
}

func (m HandTrackingModule) Install(app *App, cmd *Commands) {
	ctx := m.Context
	if ctx == nil {
		ctx = context.Background()
	}
	h := &HandInput{ctx: ctx}
	if m.Source != nil {
		h.tracker = gesture.NewTracker(m.Source, &h.latest, app.Logger())
	}
	cmd.AddResources(h)

	cmd.UseSystem(System(handSnapshotSystem).InStage(PreUpdate).RunAlways())
	if app.stateful {
		cmd.UseSystem(System(startHandTrackingSystem).InState(OnEnter(StateRunning)))
		cmd.UseSystem(System(stopHandTrackingSystem).InState(OnExit(StateQuit)))
	}
	h.enabled = !m.Disabled
}

func startHandTrackingSystem(h *HandInput) {
	h.SetEnabled(h.enabled)
}

func stopHandTrackingSystem(h *HandInput) {
	if h.tracker != nil {
		h.tracker.Stop()
	}
}

func handSnapshotSystem(h *HandInput) {
	h.Frame = h.latest.Load()
}
