package gesture

import "fmt"

// Kind is a discrete hand pose.
type Kind int

const (
	None Kind = iota
	Pinch
	ClosedFist
	One
	Two
	Three
	Four
	Five
)

var kindNames = [...]string{
	None:       "None",
	Pinch:      "Pinch",
	ClosedFist: "ClosedFist",
	One:        "One",
	Two:        "Two",
	Three:      "Three",
	Four:       "Four",
	Five:       "Five",
}

func (k Kind) String() string {
	if k < None || k > Five {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Digit returns 1..5 for One..Five and false for every other kind.
func (k Kind) Digit() (int, bool) {
	if k >= One && k <= Five {
		return int(k-One) + 1, true
	}
	return 0, false
}

// DigitKind is the inverse of Digit.
func DigitKind(n int) Kind {
	if n < 1 || n > 5 {
		return None
	}
	return One + Kind(n-1)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// HandFrame is the per-callback summary of the tracked hand. The zero value is
// the not-detected frame.
type HandFrame struct {
	Detected      bool
	PinchDistance float32 // normalized to [0,1]
	CenterX       float32 // [-1,1], mirrored
	CenterY       float32 // [-1,1], mirrored
	Gesture       Kind
	Fingers       Fingers
	Timestamp     int64 // detector timestamp in milliseconds
}
