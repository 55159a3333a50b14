package gesture

import (
	"math"
)

const (
	// PinchThreshold is the normalized pinch below which a hand reads as Pinch
	// regardless of its fingers.
	PinchThreshold = 0.08

	pinchOffset       = 0.02
	pinchRange        = 0.15
	thumbExtendedDist = 0.15
)

// Profile selects how extended fingers map to a gesture. The two profiles
// are the only implementations.
type Profile interface {
	Name() string
	resolve(fingers Fingers) Kind
}

// StandardProfile reads named poses used as effect triggers. The thumb is
// ignored: a fist is no raised finger, One is the index alone, Two is index
// and middle, four or more is an open hand (Five). Other poses are None.
type StandardProfile struct{}

func (StandardProfile) Name() string { return "standard" }

func (StandardProfile) resolve(fingers Fingers) Kind {
	fs := fingers.WithoutThumb()
	switch {
	case fs == 0:
		return ClosedFist
	case fs == Fingers(0).With(Index):
		return One
	case fs == Fingers(0).With(Index).With(Middle):
		return Two
	case fs.Count() >= 4:
		return Five
	}
	return None
}

// CountdownProfile counts raised fingers, thumb included, for digit entry.
type CountdownProfile struct{}

func (CountdownProfile) Name() string { return "countdown" }

func (CountdownProfile) resolve(fingers Fingers) Kind {
	n := fingers.Count()
	if n == 0 {
		return ClosedFist
	}
	return DigitKind(n)
}

// NormalizePinch maps a raw thumb-to-index distance onto [0,1].
func NormalizePinch(d float32) float32 {
	v := (float64(d) - pinchOffset) / pinchRange
	return float32(min(1, max(0, v)))
}

func planarDist(a, b Landmark) float32 {
	return float32(math.Hypot(float64(a.X)-float64(b.X), float64(a.Y)-float64(b.Y)))
}

// ExtendedFingers reports which fingers are raised. A finger is raised when
// its tip sits above its PIP joint in image space. The thumb is raised when
// its tip is far enough from the pinky base.
func ExtendedFingers(lm []Landmark) Fingers {
	if len(lm) < LandmarkCount {
		return 0
	}
	var fs Fingers
	if planarDist(lm[ThumbTip], lm[PinkyMCP]) > thumbExtendedDist {
		fs = fs.With(Thumb)
	}
	joints := [...]struct {
		finger   Finger
		tip, pip int
	}{
		{Index, IndexTip, IndexPIP},
		{Middle, MiddleTip, MiddlePIP},
		{Ring, RingTip, RingPIP},
		{Pinky, PinkyTip, PinkyPIP},
	}
	for _, j := range joints {
		if lm[j.tip].Y < lm[j.pip].Y {
			fs = fs.With(j.finger)
		}
	}
	return fs
}

// Classify builds the HandFrame for one detected hand. Fewer than
// LandmarkCount landmarks yields the not-detected frame. A nil profile
// classifies with StandardProfile.
func Classify(lm []Landmark, p Profile) HandFrame {
	if len(lm) < LandmarkCount {
		return HandFrame{}
	}
	if p == nil {
		p = StandardProfile{}
	}

	pinch := NormalizePinch(planarDist(lm[ThumbTip], lm[IndexTip]))
	fingers := ExtendedFingers(lm)

	kind := Pinch
	if pinch >= PinchThreshold {
		kind = p.resolve(fingers)
	}

	wrist := lm[Wrist]
	return HandFrame{
		Detected:      true,
		PinchDistance: pinch,
		CenterX:       (wrist.X - 0.5) * -2,
		CenterY:       (wrist.Y - 0.5) * -2,
		Gesture:       kind,
		Fingers:       fingers,
	}
}

// ClassifyDetection classifies the first hand of d, or returns a
// not-detected frame stamped with the detection time.
func ClassifyDetection(d Detection, p Profile) HandFrame {
	var f HandFrame
	if len(d.Hands) > 0 {
		f = Classify(d.Hands[0], p)
	}
	f.Timestamp = d.Timestamp
	return f
}
