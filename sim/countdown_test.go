package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/particleart/gesture"
)

func hand(k gesture.Kind) gesture.HandFrame {
	return gesture.HandFrame{Detected: true, Gesture: k, PinchDistance: 1}
}

func TestCountdown_Transitions(t *testing.T) {
	var c Countdown
	assert.Equal(t, WaitingForGesture, c.State().Phase)

	// Pinch and unknown poses are ignored while waiting.
	assert.False(t, c.Update(hand(gesture.Pinch), 0.1))
	assert.False(t, c.Update(gesture.HandFrame{}, 0.1))

	assert.True(t, c.Update(hand(gesture.Three), 0.1))
	assert.Equal(t, CountdownState{Phase: ShowingDigit, Digit: 3}, c.State())
	assert.False(t, c.Update(hand(gesture.Three), 0.1))

	// A different digit re-enters ShowingDigit.
	assert.True(t, c.Update(hand(gesture.Two), 0.1))
	assert.Equal(t, 2, c.State().Digit)

	// Only 1 times out.
	for i := 0; i < 20; i++ {
		assert.False(t, c.Update(gesture.HandFrame{}, 0.25))
	}
	assert.Equal(t, ShowingDigit, c.State().Phase)

	assert.True(t, c.Update(hand(gesture.One), 0.25))
	assert.False(t, c.Update(gesture.HandFrame{}, 0.5))
	assert.False(t, c.Update(gesture.HandFrame{}, 0.25))
	assert.True(t, c.Update(gesture.HandFrame{}, 0.25))
	assert.Equal(t, ShowingFinalMessage, c.State().Phase)
	assert.Equal(t, "HI", c.State().Text("HI"))

	// Digits do not leave the final message; a fist does.
	assert.False(t, c.Update(hand(gesture.Four), 0.1))
	assert.Equal(t, ShowingFinalMessage, c.State().Phase)
	assert.True(t, c.Update(hand(gesture.ClosedFist), 0.1))
	assert.Equal(t, WaitingForGesture, c.State().Phase)
	assert.Empty(t, c.State().Text("HI"))
	assert.False(t, c.Update(hand(gesture.ClosedFist), 0.1))
}

func TestCountdown_HandAbsenceKeepsDigit(t *testing.T) {
	var c Countdown
	c.Update(hand(gesture.Five), 0)
	for i := 0; i < 100; i++ {
		c.Update(gesture.HandFrame{}, 1)
	}
	assert.Equal(t, ShowingDigit, c.State().Phase)
	assert.Equal(t, "5", c.State().Text(""))
}
