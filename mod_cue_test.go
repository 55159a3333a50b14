package particleart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/particleart/gesture"
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

type recordingCues struct {
	effects    []particles.EffectKind
	countdowns []sim.CountdownState
	closed     int
}

func (r *recordingCues) PlayEffect(e particles.EffectKind) { r.effects = append(r.effects, e) }

func (r *recordingCues) PlayCountdown(s sim.CountdownState) {
	r.countdowns = append(r.countdowns, s)
}

func (r *recordingCues) Close() error {
	r.closed++
	return nil
}

func TestCueModule_PlaysOnChange(t *testing.T) {
	cues := &recordingCues{}
	app := newTestApp(t, smallConfig(), 0, CueModule{Player: cues})
	app.steps(t, 2)
	assert.Empty(t, cues.effects)

	app.press(ActionNextEffect)
	app.steps(t, 3)
	assert.Equal(t, []particles.EffectKind{particles.EffectSnow}, cues.effects)

	app.hand().Publish(gesture.HandFrame{Detected: true, Gesture: gesture.ClosedFist})
	app.steps(t, 1)
	assert.Equal(t, []particles.EffectKind{particles.EffectSnow, particles.EffectExplosion}, cues.effects)

	app.press(ActionQuit)
	app.Step()
	assert.Equal(t, 1, cues.closed)
}

func TestCueModule_Countdown(t *testing.T) {
	cues := &recordingCues{}
	cfg := smallConfig()
	cfg.Model = particles.Countdown
	app := newTestApp(t, cfg, 0, CueModule{Player: cues})

	app.hand().Publish(gesture.HandFrame{Detected: true, Gesture: gesture.One})
	app.steps(t, 1)
	// One second at 60 fps moves on to the final message.
	app.steps(t, 61)

	if assert.Len(t, cues.countdowns, 2) {
		assert.Equal(t, sim.CountdownState{Phase: sim.ShowingDigit, Digit: 1}, cues.countdowns[0])
		assert.Equal(t, sim.ShowingFinalMessage, cues.countdowns[1].Phase)
	}
	assert.Empty(t, cues.effects, "countdown mode has no effects")
}

func TestCueModule_NilPlayer(t *testing.T) {
	app := newTestApp(t, smallConfig(), 3, CueModule{})
	app.Run()
	assert.Nil(t, Resource[CueOutput](app.App))
}
