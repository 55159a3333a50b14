package particleart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTime_DeltaSeconds(t *testing.T) {
	tm := &Time{}
	assert.InDelta(t, 1.0/60, tm.DeltaSeconds(), 1e-6, "first frame falls back to 60 fps")

	tm.Dt = 250 * time.Millisecond
	assert.InDelta(t, 0.25, tm.DeltaSeconds(), 1e-6)
}

func TestTimeModule_FixedStep(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{FixedStep: 10 * time.Millisecond}).Build()
	start := Resource[Time](app).Time

	stepN(t, app, 5)

	tm := Resource[Time](app)
	assert.Equal(t, uint64(5), tm.Frame)
	assert.Equal(t, 10*time.Millisecond, tm.Dt)
	assert.Equal(t, 50*time.Millisecond, tm.Time.Sub(start))
}

func TestTimeModule_WallClock(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).Build()

	app.Step()
	assert.Zero(t, Resource[Time](app).Dt)
	time.Sleep(5 * time.Millisecond)
	app.Step()
	assert.GreaterOrEqual(t, Resource[Time](app).Dt, 5*time.Millisecond)
}

func TestTimeModule_MaxFrames(t *testing.T) {
	app := NewAppBuilder().
		UseStates(StateRunning, StateQuit).
		UseModule(TimeModule{FixedStep: time.Millisecond, MaxFrames: 4}).
		Build()

	app.Run()
	assert.Equal(t, uint64(4), Resource[Time](app).Frame)
}
