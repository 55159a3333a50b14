package sim

import (
	"fmt"
	"strconv"

	"github.com/gekko3d/particleart/gesture"
)

type CountdownPhase int

const (
	WaitingForGesture CountdownPhase = iota
	ShowingDigit
	ShowingFinalMessage
)

func (p CountdownPhase) String() string {
	switch p {
	case WaitingForGesture:
		return "WaitingForGesture"
	case ShowingDigit:
		return "ShowingDigit"
	case ShowingFinalMessage:
		return "ShowingFinalMessage"
	}
	return fmt.Sprintf("CountdownPhase(%d)", int(p))
}

// FinalDelay is how long the digit 1 stays up before the final message.
const FinalDelay float32 = 1.0

// CountdownState is a snapshot of the countdown machine.
type CountdownState struct {
	Phase   CountdownPhase
	Digit   int     // 1..5 while ShowingDigit
	InPhase float32 // seconds spent in the current phase
}

// Text is what the particles spell in this state; empty while waiting.
func (s CountdownState) Text(message string) string {
	switch s.Phase {
	case ShowingDigit:
		return strconv.Itoa(s.Digit)
	case ShowingFinalMessage:
		return message
	}
	return ""
}

// Countdown is the gesture-driven countdown machine. It only advances
// through Update; hand absence keeps whatever is displayed.
//
//	WaitingForGesture --One..Five--> ShowingDigit(n) --n==1 held FinalDelay--> ShowingFinalMessage
//	any phase --ClosedFist--> WaitingForGesture
type Countdown struct {
	state CountdownState
}

func (c *Countdown) State() CountdownState { return c.state }

func (c *Countdown) Reset() { c.state = CountdownState{} }

// Update feeds one frame to the machine and reports whether the phase or
// digit changed.
func (c *Countdown) Update(hand gesture.HandFrame, dt float32) bool {
	if hand.Detected {
		if hand.Gesture == gesture.ClosedFist {
			if c.state.Phase != WaitingForGesture {
				c.enter(WaitingForGesture, 0)
				return true
			}
		} else if n, ok := hand.Gesture.Digit(); ok && c.state.Phase != ShowingFinalMessage {
			if c.state.Phase != ShowingDigit || c.state.Digit != n {
				c.enter(ShowingDigit, n)
				return true
			}
		}
	}

	c.state.InPhase += max(0, dt)
	if c.state.Phase == ShowingDigit && c.state.Digit == 1 && c.state.InPhase >= FinalDelay {
		c.enter(ShowingFinalMessage, 0)
		return true
	}
	return false
}

func (c *Countdown) enter(p CountdownPhase, digit int) {
	c.state = CountdownState{Phase: p, Digit: digit}
}
