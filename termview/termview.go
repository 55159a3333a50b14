// Package termview renders the particle cloud into a terminal with tcell.
// Each cell shows how many particles project into it; brighter cells hold
// more particles, which mimics additive blending.
package termview

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particleart"
	"github.com/gekko3d/particleart/sim"
)

const (
	cameraDistance = 8
	cameraFov      = 60
	// Terminal cells are about twice as tall as they are wide.
	cellAspect = 2
)

var ramp = []rune(".:-=+*#%@")

// Renderer implements particleart.Renderer on a tcell screen.
type Renderer struct {
	screen tcell.Screen

	mu      sync.Mutex
	pending []particleart.Action
	closing bool

	instances []sim.Instance
	density   []float32
	done      chan struct{}
	closeOnce sync.Once
}

// New opens the terminal.
func New() (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewWithScreen(screen)
}

// NewWithScreen initializes screen and starts reading its events.
func NewWithScreen(screen tcell.Screen) (*Renderer, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	r := &Renderer{screen: screen, done: make(chan struct{})}
	go r.pollEvents()
	return r, nil
}

func (r *Renderer) pollEvents() {
	defer close(r.done)
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			// Fini was called
			return
		}
		r.handle(ev)
	}
}

func (r *Renderer) handle(ev tcell.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			r.closing = true
		case tcell.KeyEscape:
			r.push(particleart.ActionQuit)
		case tcell.KeyRight:
			r.push(particleart.ActionNextModel)
		case tcell.KeyLeft:
			r.push(particleart.ActionPrevModel)
		case tcell.KeyUp:
			r.push(particleart.ActionMoreParticles)
		case tcell.KeyDown:
			r.push(particleart.ActionFewerParticles)
		case tcell.KeyTab:
			r.push(particleart.ActionNextEffect)
		case tcell.KeyRune:
			r.push(particleart.ActionForKey(ev.Rune()))
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
}

func (r *Renderer) push(a particleart.Action) {
	if a != particleart.ActionNone {
		r.pending = append(r.pending, a)
	}
}

func (r *Renderer) PollActions() []particleart.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.pending
	r.pending = nil
	return a
}

func (r *Renderer) ShouldClose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closing
}

func (r *Renderer) Draw(f sim.Frame) error {
	w, h := r.screen.Size()
	if w <= 0 || h <= 1 {
		return nil
	}
	// Bottom row is the status line.
	rows := h - 1

	if cap(r.density) < w*rows {
		r.density = make([]float32, w*rows)
	}
	r.density = r.density[:w*rows]
	clear(r.density)

	r.instances = f.Instances(r.instances[:0])
	aspect := float32(w) / float32(rows*cellAspect)
	mvp := mgl32.Perspective(mgl32.DegToRad(cameraFov), aspect, 0.1, 1000).
		Mul4(mgl32.LookAtV(mgl32.Vec3{0, 0, cameraDistance}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))

	var peak float32
	for _, in := range r.instances {
		x, y, ok := project(mvp, in.Pos, w, rows)
		if !ok {
			continue
		}
		d := &r.density[y*w+x]
		*d += in.Color[3]
		peak = max(peak, *d)
	}

	r.screen.Clear()
	if peak > 0 {
		for y := 0; y < rows; y++ {
			for x := 0; x < w; x++ {
				d := r.density[y*w+x]
				if d == 0 {
					continue
				}
				level := d / peak
				glyph := ramp[min(len(ramp)-1, int(level*float32(len(ramp))))]
				r.screen.SetContent(x, y, glyph, nil, tcell.StyleDefault.Foreground(shade(f.Color, 0.35+0.65*level)))
			}
		}
	}
	r.drawStatus(f, w, h-1)
	r.screen.Show()
	return nil
}

// project maps a world position to a cell, reporting false when it falls
// behind the camera or off screen.
func project(mvp mgl32.Mat4, p [3]float32, w, h int) (x, y int, ok bool) {
	clip := mvp.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	x = int((nx + 1) / 2 * float32(w))
	y = int((1 - ny) / 2 * float32(h))
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func shade(c mgl32.Vec3, k float32) tcell.Color {
	ch := func(v float32) int32 {
		return int32(mgl32.Clamp(v*k, 0, 1) * 255)
	}
	return tcell.NewRGBColor(ch(c[0]), ch(c[1]), ch(c[2]))
}

func (r *Renderer) drawStatus(f sim.Frame, w, row int) {
	status := fmt.Sprintf(" %s | %s | %d particles", f.Model, f.Effect, f.Count())
	if f.Countdown.Phase != sim.WaitingForGesture {
		status += fmt.Sprintf(" | %s", f.Countdown.Phase)
		if f.Countdown.Phase == sim.ShowingDigit {
			status += fmt.Sprintf(" %d", f.Countdown.Digit)
		}
	}
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, c := range status {
		if x >= w {
			break
		}
		r.screen.SetContent(x, row, c, nil, style)
		x++
	}
	for ; x < w; x++ {
		r.screen.SetContent(x, row, ' ', nil, style)
	}
}

func (r *Renderer) Close() error {
	r.closeOnce.Do(func() {
		r.screen.Fini()
		<-r.done
	})
	return nil
}
