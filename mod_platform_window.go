package particleart

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/particleart/sim"
)

// GLRenderer draws the particle cloud as additive point sprites in a GLFW
// window. It must be created and used from the same goroutine.
type GLRenderer struct {
	window    *WindowState
	gpu       *GpuState
	instances []sim.Instance
	pending   []Action
}

// NewGLRenderer opens a window. Zero sizes and an empty title get defaults.
func NewGLRenderer(width, height int, title string) (*GLRenderer, error) {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Particle Art"
	}

	ws, err := createWindowState(width, height, title)
	if err != nil {
		return nil, err
	}
	gpu, err := createGpuState()
	if err != nil {
		ws.destroy()
		return nil, fmt.Errorf("failed to set up gpu: %w", err)
	}

	r := &GLRenderer{window: ws, gpu: gpu}
	ws.windowGlfw.SetCharCallback(func(w *glfw.Window, char rune) {
		r.push(ActionForKey(char))
	})
	ws.windowGlfw.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			r.push(actionForGlfwKey(key))
		}
	})
	ws.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ws.WindowWidth, ws.WindowHeight = width, height
	})
	ws.WindowWidth, ws.WindowHeight = ws.windowGlfw.GetFramebufferSize()
	return r, nil
}

func (r *GLRenderer) push(a Action) {
	if a != ActionNone {
		r.pending = append(r.pending, a)
	}
}

// actionForGlfwKey maps the non-printable keys. Printable keys arrive
// through the char callback.
func actionForGlfwKey(key glfw.Key) Action {
	switch key {
	case glfw.KeyEscape:
		return ActionQuit
	case glfw.KeyRight:
		return ActionNextModel
	case glfw.KeyLeft:
		return ActionPrevModel
	case glfw.KeyUp:
		return ActionMoreParticles
	case glfw.KeyDown:
		return ActionFewerParticles
	case glfw.KeyTab:
		return ActionNextEffect
	}
	return ActionNone
}

func (r *GLRenderer) PollActions() []Action {
	glfw.PollEvents()
	a := r.pending
	r.pending = nil
	return a
}

func (r *GLRenderer) ShouldClose() bool {
	return r.window.windowGlfw.ShouldClose()
}

func (r *GLRenderer) Draw(f sim.Frame) error {
	r.instances = f.Instances(r.instances[:0])
	r.gpu.draw(r.instances, r.window.WindowWidth, r.window.WindowHeight)
	r.window.windowGlfw.SwapBuffers()
	return nil
}

func (r *GLRenderer) Close() error {
	if r.gpu == nil {
		return nil
	}
	r.gpu.release()
	r.window.destroy()
	r.gpu = nil
	return nil
}
