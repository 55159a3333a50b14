package particleart

import (
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

// SimulationResource wraps the particle simulation for the frame loop.
// While Paused the buffers are left untouched and rendering continues.
type SimulationResource struct {
	Sim    *sim.Simulation
	Paused bool

	// Per-frame change flags for cues and overlays.
	EffectChanged    bool
	CountdownChanged bool

	lastEffect    particles.EffectKind
	lastCountdown sim.CountdownState
}

type SimulationModule struct {
	Options sim.Options
}

func (m SimulationModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	store := Resource[ConfigStore](app)
	if store == nil {
		store = NewConfigStore(sim.DefaultConfig())
		cmd.AddResources(store)
	}
	if Resource[HandInput](app) == nil {
		cmd.AddResources(&HandInput{})
	}

	s, err := sim.New(store.Load(), m.Options)
	if err != nil {
		// Only the embedded font can fail here.
		panic(err)
	}
	cfg := s.Config()
	log.Infof("simulation ready: %s, %d particles, effect %s", cfg.Model, cfg.ParticleCount, cfg.Effect)

	res := &SimulationResource{
		Sim:           s,
		lastEffect:    s.ActiveEffect(),
		lastCountdown: s.Countdown(),
	}
	cmd.AddResources(res)

	sys := simulationSystems{log: log}
	cmd.UseSystem(System(sys.advance).InStage(Update).RunAlways())
}

type simulationSystems struct {
	log Logger
}

func (sys simulationSystems) advance(t *Time, store *ConfigStore, hand *HandInput, s *SimulationResource) {
	s.EffectChanged, s.CountdownChanged = false, false
	if s.Paused {
		return
	}

	before := s.Sim.Config()
	if err := s.Sim.Advance(store.Load(), hand.Frame, t.DeltaSeconds()); err != nil {
		sys.log.Errorf("simulation: %v", err)
	}
	after := s.Sim.Config()
	if before.Model != after.Model || before.ParticleCount != after.ParticleCount {
		sys.log.Debugf("regenerated %d particles for %s", after.ParticleCount, after.Model)
	}

	if e := s.Sim.ActiveEffect(); e != s.lastEffect {
		sys.log.Debugf("effect %s -> %s", s.lastEffect, e)
		s.lastEffect = e
		s.EffectChanged = true
	}
	if c := s.Sim.Countdown(); c.Phase != s.lastCountdown.Phase || c.Digit != s.lastCountdown.Digit {
		sys.log.Debugf("countdown %s(%d) -> %s(%d)", s.lastCountdown.Phase, s.lastCountdown.Digit, c.Phase, c.Digit)
		s.CountdownChanged = true
	}
	s.lastCountdown = s.Sim.Countdown()

	// The tracker classifies the next detections for the current mode.
	hand.SetProfile(s.Sim.Profile())
}
