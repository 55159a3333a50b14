// Package gesture turns normalized hand landmarks into discrete gestures and
// publishes them as a last-value HandFrame.
package gesture

import (
	"math/bits"
	"strings"
)

// LandmarkCount is the number of landmarks a detector reports per hand.
const LandmarkCount = 21

// Landmark indices in detector order.
const (
	Wrist = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip
)

// Landmark is a point in normalized image space: x and y in [0,1] with y
// growing downward, z relative depth.
type Landmark struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type Finger uint8

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

var fingerNames = [...]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if int(f) < len(fingerNames) {
		return fingerNames[f]
	}
	return "finger?"
}

// Fingers is a bit set of extended fingers.
type Fingers uint8

func (fs Fingers) With(f Finger) Fingers { return fs | 1<<f }

func (fs Fingers) Has(f Finger) bool { return fs&(1<<f) != 0 }

func (fs Fingers) Count() int { return bits.OnesCount8(uint8(fs)) }

// WithoutThumb clears the thumb bit.
func (fs Fingers) WithoutThumb() Fingers { return fs &^ (1 << Thumb) }

func (fs Fingers) String() string {
	if fs == 0 {
		return "none"
	}
	var parts []string
	for f := Thumb; f <= Pinky; f++ {
		if fs.Has(f) {
			parts = append(parts, f.String())
		}
	}
	return strings.Join(parts, "+")
}
