package particleart

import (
	"fmt"

	"github.com/gekko3d/particleart/sim"
)

// Action is a user command coming from a renderer's keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionNextModel
	ActionPrevModel
	ActionNextEffect
	ActionReset
	ActionExport
	ActionToggleTracking
	ActionTogglePause
	ActionMoreParticles
	ActionFewerParticles
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionQuit:           "quit",
	ActionNextModel:      "next model",
	ActionPrevModel:      "previous model",
	ActionNextEffect:     "next effect",
	ActionReset:          "reset",
	ActionExport:         "export config",
	ActionToggleTracking: "toggle hand tracking",
	ActionTogglePause:    "pause",
	ActionMoreParticles:  "more particles",
	ActionFewerParticles: "fewer particles",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// KeyBindings maps printable keys to actions. Renderers translate their
// native key events through it and add their own mapping for arrows and
// escape.
var KeyBindings = map[rune]Action{
	'q': ActionQuit,
	'n': ActionNextModel,
	'p': ActionPrevModel,
	'e': ActionNextEffect,
	'r': ActionReset,
	'j': ActionExport,
	'c': ActionToggleTracking,
	' ': ActionTogglePause,
	'+': ActionMoreParticles,
	'=': ActionMoreParticles,
	'-': ActionFewerParticles,
}

// ActionForKey returns the bound action for r, or ActionNone.
func ActionForKey(r rune) Action {
	return KeyBindings[r]
}

// particleStep is how much ActionMoreParticles and ActionFewerParticles
// change the particle count.
const particleStep = 1000

// Input collects the actions of the current frame.
type Input struct {
	Actions []Action
}

// Push queues an action for this frame.
func (in *Input) Push(a Action) {
	if a != ActionNone {
		in.Actions = append(in.Actions, a)
	}
}

// Has reports whether a was requested this frame.
func (in *Input) Has(a Action) bool {
	for _, x := range in.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// InputModule provides the Input resource and clears it at the end of every
// frame. Actions pushed in PreUpdate are applied in Update.
type InputModule struct {
	ExportDir string
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	if Resource[Input](app) == nil {
		cmd.AddResources(&Input{})
	}
	dispatch := actionDispatcher{log: app.Logger(), exportDir: mod.ExportDir}
	cmd.UseSystem(System(dispatch.system).InStage(Update).RunAlways())
	cmd.UseSystem(System(clearInputSystem).InStage(Finale).RunAlways())
}

func clearInputSystem(input *Input) {
	input.Actions = input.Actions[:0]
}

type actionDispatcher struct {
	log       Logger
	exportDir string
}

func (d actionDispatcher) system(input *Input, store *ConfigStore, hand *HandInput, s *SimulationResource, cmd *Commands) {
	for _, a := range input.Actions {
		switch a {
		case ActionQuit:
			cmd.Quit()
		case ActionNextModel, ActionPrevModel:
			step := 1
			if a == ActionPrevModel {
				step = -1
			}
			cfg := store.Update(func(cfg *sim.Config) { cfg.Model = cfg.Model.Next(step) })
			d.log.Infof("model: %s", cfg.Model)
		case ActionNextEffect:
			cfg := store.Update(func(cfg *sim.Config) { cfg.Effect = cfg.Effect.Next(1) })
			d.log.Infof("effect: %s", cfg.Effect)
		case ActionMoreParticles, ActionFewerParticles:
			step := particleStep
			if a == ActionFewerParticles {
				step = -particleStep
			}
			cfg := store.Update(func(cfg *sim.Config) { cfg.ParticleCount += step })
			d.log.Infof("particles: %d", cfg.ParticleCount)
		case ActionReset:
			store.Store(sim.DefaultConfig())
			s.Sim.Reset(store.Load())
			s.Paused = false
			d.log.Infof("reset to defaults")
		case ActionExport:
			path, err := ExportConfig(d.exportDir, store.Load())
			if err != nil {
				d.log.Errorf("export failed: %v", err)
				continue
			}
			d.log.Infof("exported config to %s", path)
		case ActionToggleTracking:
			hand.SetEnabled(!hand.Enabled())
			d.log.Infof("hand tracking enabled: %v", hand.Enabled())
		case ActionTogglePause:
			s.Paused = !s.Paused
			d.log.Debugf("paused: %v", s.Paused)
		}
	}
}
