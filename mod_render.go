package particleart

import (
	"github.com/gekko3d/particleart/sim"
)

// Renderer is the rendering substrate. Draw uploads one frame; the positions
// in f are only valid during the call. PollActions drains keyboard input
// gathered since the last poll.
type Renderer interface {
	Draw(f sim.Frame) error
	PollActions() []Action
	ShouldClose() bool
	Close() error
}

// NopRenderer draws nothing. It is used for headless runs and tests.
type NopRenderer struct {
	Frames  uint64
	Last    sim.Frame
	Pending []Action
	Closed  bool
}

func (r *NopRenderer) Draw(f sim.Frame) error {
	r.Frames++
	r.Last = f
	return nil
}

func (r *NopRenderer) PollActions() []Action {
	a := r.Pending
	r.Pending = nil
	return a
}

func (r *NopRenderer) ShouldClose() bool { return r.Closed }

func (r *NopRenderer) Close() error {
	r.Closed = true
	return nil
}

// RenderTarget is the installed renderer.
type RenderTarget struct {
	Renderer Renderer
	failures int
}

type RenderModule struct {
	Renderer Renderer
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	r := m.Renderer
	if r == nil {
		r = &NopRenderer{}
	}
	cmd.AddResources(&RenderTarget{Renderer: r})
	if Resource[Input](app) == nil {
		cmd.AddResources(&Input{})
	}

	sys := renderSystems{log: app.Logger()}
	cmd.UseSystem(System(sys.poll).InStage(PreUpdate).RunAlways())
	cmd.UseSystem(System(sys.draw).InStage(Render).RunAlways())
	if app.stateful {
		cmd.UseSystem(System(sys.close).InState(OnExit(StateQuit)))
	}
}

// maxDrawFailures consecutive failed draws end the run.
const maxDrawFailures = 30

type renderSystems struct {
	log Logger
}

func (sys renderSystems) poll(rt *RenderTarget, input *Input, cmd *Commands) {
	for _, a := range rt.Renderer.PollActions() {
		input.Push(a)
	}
	if rt.Renderer.ShouldClose() {
		cmd.Quit()
	}
}

func (sys renderSystems) draw(rt *RenderTarget, s *SimulationResource, cmd *Commands) {
	if err := rt.Renderer.Draw(s.Sim.Frame()); err != nil {
		rt.failures++
		sys.log.Errorf("draw: %v", err)
		if rt.failures >= maxDrawFailures {
			sys.log.Errorf("renderer keeps failing, quitting")
			cmd.Quit()
		}
		return
	}
	rt.failures = 0
}

func (sys renderSystems) close(rt *RenderTarget) {
	if err := rt.Renderer.Close(); err != nil {
		sys.log.Warnf("failed to close renderer: %v", err)
	}
}
