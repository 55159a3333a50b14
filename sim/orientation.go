package sim

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gekko3d/particleart/gesture"
)

// Smoothing selects how per-frame lerp factors react to the frame duration.
type Smoothing int

const (
	// FrameCoupled applies each factor once per frame, so convergence speed
	// follows the frame rate.
	FrameCoupled Smoothing = iota
	// DeltaCorrected rescales each factor so that a 60 Hz frame matches
	// FrameCoupled and other rates converge at the same wall-clock speed.
	DeltaCorrected
)

func (s Smoothing) String() string {
	if s == DeltaCorrected {
		return "delta"
	}
	return "frame"
}

func ParseSmoothing(s string) (Smoothing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frame":
		return FrameCoupled, nil
	case "delta":
		return DeltaCorrected, nil
	}
	return FrameCoupled, fmt.Errorf("unknown smoothing %q (want frame or delta)", s)
}

const referenceRate = 60

// Factor returns the lerp factor to apply for a frame of dt seconds.
func (s Smoothing) Factor(perFrame, dt float32) float32 {
	if s != DeltaCorrected {
		return perFrame
	}
	switch {
	case perFrame >= 1:
		return 1
	case perFrame <= 0 || dt <= 0:
		return 0
	}
	rate := -math32.Log(1-perFrame) * referenceRate
	return 1 - math32.Exp(-rate*dt)
}

const (
	handFollow  = 0.1
	idleRelax   = 0.05
	idleSpin    = 0.1
	pinchBase   = 0.5
	pinchSpread = 2.5
)

// Orientation is the whole-cloud transform driven by the hand.
type Orientation struct {
	Yaw   float32
	Pitch float32
	Scale float32
}

func neutralOrientation() Orientation { return Orientation{Scale: 1} }

func (o *Orientation) update(hand gesture.HandFrame, cfg Config, dt float32, s Smoothing) {
	if !hand.Detected {
		o.Yaw += idleSpin * cfg.Speed * dt
		k := s.Factor(idleRelax, dt)
		o.Pitch += (0 - o.Pitch) * k
		o.Scale += (1 - o.Scale) * k
		return
	}

	k := s.Factor(handFollow, dt)
	o.Yaw += (hand.CenterX*math32.Pi - o.Yaw) * k
	o.Pitch += (-hand.CenterY*math32.Pi/2 - o.Pitch) * k

	target := float32(1)
	if hand.Gesture == gesture.Pinch {
		target = pinchBase + hand.PinchDistance*pinchSpread
	}
	o.Scale += (target - o.Scale) * s.Factor(float32(cfg.InteractionSensitivity)*0.1, dt)
}
