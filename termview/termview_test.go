package termview

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particleart"
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

func newTestRenderer(t *testing.T) (*Renderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	r, err := NewWithScreen(screen)
	require.NoError(t, err)
	screen.SetSize(80, 25)
	t.Cleanup(func() { _ = r.Close() })
	return r, screen
}

func centerFrame(n int) sim.Frame {
	return sim.Frame{
		Positions:    particles.NewBuffer(n),
		Scale:        1,
		ParticleSize: 0.05,
		Color:        mgl32.Vec3{1, 0, 0},
		Opacity:      1,
		Model:        particles.Sphere,
		Effect:       particles.EffectSnow,
	}
}

func rowText(screen tcell.SimulationScreen, row, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		c, _, _, _ := screen.GetContent(x, row)
		b.WriteRune(c)
	}
	return b.String()
}

func TestDraw_ProjectsOriginToCenter(t *testing.T) {
	r, screen := newTestRenderer(t)

	require.NoError(t, r.Draw(centerFrame(10)))

	c, _, style, _ := screen.GetContent(40, 12)
	assert.Equal(t, ramp[len(ramp)-1], c)
	fg, _, _ := style.Decompose()
	red, green, blue := fg.RGB()
	assert.Equal(t, int32(255), red)
	assert.Zero(t, green)
	assert.Zero(t, blue)

	corner, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, ' ', corner)

	status := rowText(screen, 24, 80)
	assert.Contains(t, status, particles.Sphere.String())
	assert.Contains(t, status, "10 particles")
}

func TestDraw_EmptyFrame(t *testing.T) {
	r, screen := newTestRenderer(t)

	require.NoError(t, r.Draw(centerFrame(0)))
	c, _, _, _ := screen.GetContent(40, 12)
	assert.Equal(t, ' ', c)
}

func TestProject_BehindCamera(t *testing.T) {
	mvp := mgl32.Perspective(mgl32.DegToRad(cameraFov), 1, 0.1, 1000).
		Mul4(mgl32.LookAtV(mgl32.Vec3{0, 0, cameraDistance}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))

	_, _, ok := project(mvp, [3]float32{0, 0, cameraDistance + 1}, 80, 24)
	assert.False(t, ok)
	_, _, ok = project(mvp, [3]float32{100, 0, 0}, 80, 24)
	assert.False(t, ok)
	x, y, ok := project(mvp, [3]float32{0, 0, 0}, 80, 24)
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 12, y)
}

func TestKeys(t *testing.T) {
	r, screen := newTestRenderer(t)

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)

	var got []particleart.Action
	assert.Eventually(t, func() bool {
		got = append(got, r.PollActions()...)
		return len(got) >= 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []particleart.Action{particleart.ActionNextModel, particleart.ActionQuit}, got)
	assert.False(t, r.ShouldClose())

	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	assert.Eventually(t, r.ShouldClose, time.Second, 5*time.Millisecond)
}

func TestClose_Idempotent(t *testing.T) {
	r, _ := newTestRenderer(t)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}
