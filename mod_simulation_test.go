package particleart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particleart/gesture"
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

type testApp struct {
	*App
	renderer  *NopRenderer
	exportDir string
}

func (a testApp) store() *ConfigStore { return Resource[ConfigStore](a.App) }
func (a testApp) sim() *SimulationResource { return Resource[SimulationResource](a.App) }
func (a testApp) hand() *HandInput { return Resource[HandInput](a.App) }

func (a testApp) press(actions ...Action) {
	a.renderer.Pending = append(a.renderer.Pending, actions...)
}

func (a testApp) steps(t *testing.T, n int) {
	t.Helper()
	stepN(t, a.App, n)
}

func stepN(t *testing.T, app *App, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, app.Step(), "app finished early at frame %d", i)
	}
}

func smallConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.ParticleCount = 100
	return cfg
}

func newTestApp(t *testing.T, cfg sim.Config, maxFrames uint64, extra ...Module) testApp {
	t.Helper()
	r := &NopRenderer{}
	dir := t.TempDir()
	app := NewAppBuilder().
		UseStates(StateRunning, StateQuit).
		UseModule(
			LoggingModule{Logger: NewNopLogger()},
			TimeModule{FixedStep: time.Second / 60, MaxFrames: maxFrames},
			ConfigModule{Initial: &cfg},
			HandTrackingModule{},
			InputModule{ExportDir: dir},
			SimulationModule{Options: sim.Options{Rand: particles.NewRand(1)}},
			RenderModule{Renderer: r},
		).
		UseModule(extra...).
		Build()
	return testApp{App: app, renderer: r, exportDir: dir}
}

func TestSimulationModule_RunsUntilMaxFrames(t *testing.T) {
	app := newTestApp(t, smallConfig(), 10)

	app.Run()

	assert.Equal(t, uint64(10), app.renderer.Frames)
	assert.Equal(t, uint64(10), app.sim().Sim.Frames())
	assert.Equal(t, 100, app.renderer.Last.Count())
	assert.True(t, app.renderer.Closed)
	assert.Equal(t, StateQuit, app.State())
}

func TestSimulationModule_FollowsConfigStore(t *testing.T) {
	app := newTestApp(t, smallConfig(), 0)
	app.steps(t, 1)

	app.store().Update(func(cfg *sim.Config) {
		cfg.Model = particles.Galaxy
		cfg.ParticleCount = 250
	})
	app.steps(t, 1)

	s := app.sim().Sim
	assert.Equal(t, particles.Galaxy, s.Config().Model)
	assert.Equal(t, 250, s.Current().Count())
	assert.Equal(t, particles.Galaxy, app.renderer.Last.Model)
}

func TestSimulationModule_Pause(t *testing.T) {
	app := newTestApp(t, smallConfig(), 0)
	app.steps(t, 2)
	frames := app.sim().Sim.Frames()

	app.press(ActionTogglePause)
	app.steps(t, 3)
	assert.True(t, app.sim().Paused)
	assert.Equal(t, frames, app.sim().Sim.Frames())
	assert.Equal(t, uint64(5), app.renderer.Frames, "rendering continues while paused")

	app.press(ActionTogglePause)
	app.steps(t, 1)
	assert.Equal(t, frames+1, app.sim().Sim.Frames())
}

func TestSimulationModule_EffectChangedFlag(t *testing.T) {
	app := newTestApp(t, smallConfig(), 0)
	app.steps(t, 1)
	assert.False(t, app.sim().EffectChanged)

	app.hand().Publish(gesture.HandFrame{Detected: true, Gesture: gesture.ClosedFist})
	app.steps(t, 1)
	assert.True(t, app.sim().EffectChanged)
	assert.Equal(t, particles.EffectExplosion, app.sim().Sim.ActiveEffect())

	app.steps(t, 1)
	assert.False(t, app.sim().EffectChanged, "the flag lasts one frame")

	app.hand().Publish(gesture.HandFrame{})
	app.steps(t, 1)
	assert.True(t, app.sim().EffectChanged)
	assert.Equal(t, particles.EffectNone, app.sim().Sim.ActiveEffect())
}

func TestSimulationModule_CountdownChangedFlag(t *testing.T) {
	cfg := smallConfig()
	cfg.Model = particles.Countdown
	app := newTestApp(t, cfg, 0)
	app.steps(t, 1)
	assert.Equal(t, sim.ModeCountdown, app.sim().Sim.Mode())

	app.hand().Publish(gesture.HandFrame{Detected: true, Gesture: gesture.Three})
	app.steps(t, 1)
	assert.True(t, app.sim().CountdownChanged)
	assert.Equal(t, sim.CountdownState{Phase: sim.ShowingDigit, Digit: 3}, app.sim().Sim.Countdown())

	app.steps(t, 1)
	assert.False(t, app.sim().CountdownChanged)
}
