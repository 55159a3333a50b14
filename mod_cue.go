package particleart

import (
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

// CuePlayer turns simulation changes into sound. cue.Player implements it.
type CuePlayer interface {
	PlayEffect(e particles.EffectKind)
	PlayCountdown(state sim.CountdownState)
	Close() error
}

type CueOutput struct {
	Player CuePlayer
}

type CueModule struct {
	Player CuePlayer
}

func (m CueModule) Install(app *App, cmd *Commands) {
	if m.Player == nil {
		return
	}
	cmd.AddResources(&CueOutput{Player: m.Player})

	sys := cueSystems{log: app.Logger()}
	cmd.UseSystem(System(sys.play).InStage(PostUpdate).RunAlways())
	if app.stateful {
		cmd.UseSystem(System(sys.close).InState(OnExit(StateQuit)))
	}
}

type cueSystems struct {
	log Logger
}

func (sys cueSystems) play(out *CueOutput, s *SimulationResource) {
	if s.EffectChanged {
		out.Player.PlayEffect(s.Sim.ActiveEffect())
	}
	if s.CountdownChanged {
		out.Player.PlayCountdown(s.Sim.Countdown())
	}
}

func (sys cueSystems) close(out *CueOutput) {
	if err := out.Player.Close(); err != nil {
		sys.log.Warnf("failed to close audio: %v", err)
	}
}
